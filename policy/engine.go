// Package policy decides menu-option visibility with OPA.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.menu_policy.allow"),
		rego.Module("menu_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Allow reports whether a user with the given role may see a menu node in the
// given access group.
func (e *Engine) Allow(ctx context.Context, role string, accessGroup int64) (bool, error) {
	input := map[string]interface{}{
		"role":         role,
		"access_group": accessGroup,
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, nil
	}

	allowed, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("policy returned non-boolean decision: %v", results[0].Expressions[0].Value)
	}
	return allowed, nil
}

// DefaultPolicy is the default menu visibility policy: access group 1 is
// public, anything above it needs an HR or Admin role.
const DefaultPolicy = `
package menu_policy

default allow = false

allow {
	input.access_group == 1
}

allow {
	input.role == "HR"
}

allow {
	input.role == "Admin"
}
`
