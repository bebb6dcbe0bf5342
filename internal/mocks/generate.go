// Package mocks provides mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the port interfaces; hand-written fakes for the auth ports live in
// the auth subpackage. The mocks are generated using go:generate
// directives.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockStore := mocks.NewMockAuditStore(ctrl)
//	mockStore.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
package mocks

// Generate mock for KV interface from internal/ports.
// This creates MockKV with Get, Set, SetMulti, Delete.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=kv_mock.go github.com/driftline/driftline/internal/ports KV

// Generate mock for AuditStore interface from internal/ports.
// This creates MockAuditStore with Record.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=audit_store_mock.go github.com/driftline/driftline/internal/ports AuditStore
