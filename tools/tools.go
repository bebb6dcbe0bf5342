//go:build tools
// +build tools

// Package tools pins the dev tooling this repository assumes but does not
// import at runtime. The build tag keeps it out of normal builds; go.mod
// stays limited to code the binary actually links.
package tools

// Air rebuilds and restarts cmd/driftline on file save. Run `air` from the
// repository root.
//
//	go install github.com/air-verse/air@v1.63.0
//
// mockgen regenerates the port mocks under internal/mocks; it is invoked
// through `go generate ./internal/mocks` rather than installed directly.
