package claims

// Package claims extracts profile fields from identity-provider token
// claims using configurable JMESPath expressions, so deployments with
// non-standard claim layouts don't need code changes.

import (
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// Default expressions cover the common OIDC claim names.
const (
	DefaultUsernameExpr = "preferred_username || nickname || sub"
	DefaultEmailExpr    = "email"
	DefaultGroupsExpr   = "groups"
)

// Extractor evaluates the configured expressions against a decoded claims
// object.
type Extractor struct {
	UsernameExpr string
	EmailExpr    string
	GroupsExpr   string
}

// NewExtractor validates the expressions up front and fills in defaults for
// empty ones.
func NewExtractor(usernameExpr, emailExpr, groupsExpr string) (Extractor, error) {
	e := Extractor{
		UsernameExpr: orDefault(usernameExpr, DefaultUsernameExpr),
		EmailExpr:    orDefault(emailExpr, DefaultEmailExpr),
		GroupsExpr:   orDefault(groupsExpr, DefaultGroupsExpr),
	}
	for _, expr := range []string{e.UsernameExpr, e.EmailExpr, e.GroupsExpr} {
		if _, err := jmespath.Compile(expr); err != nil {
			return Extractor{}, fmt.Errorf("compile claims expression %q: %w", expr, err)
		}
	}
	return e, nil
}

// Result holds the extracted profile fields. Missing claims yield zero
// values, not errors: claim layouts vary by provider.
type Result struct {
	Username string
	Email    string
	Groups   []string
}

// Extract evaluates the expressions against the claims object.
func (e Extractor) Extract(data map[string]any) Result {
	return Result{
		Username: searchString(e.UsernameExpr, data),
		Email:    searchString(e.EmailExpr, data),
		Groups:   searchStrings(e.GroupsExpr, data),
	}
}

func searchString(expr string, data map[string]any) string {
	v, err := jmespath.Search(expr, data)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func searchStrings(expr string, data map[string]any) []string {
	v, err := jmespath.Search(expr, data)
	if err != nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func orDefault(expr, fallback string) string {
	if strings.TrimSpace(expr) == "" {
		return fallback
	}
	return expr
}
