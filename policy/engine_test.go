package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicy(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	tests := []struct {
		name        string
		role        string
		accessGroup int64
		want        bool
	}{
		{"public group visible to employee", "Employee", 1, true},
		{"public group visible to unknown role", "", 1, true},
		{"restricted group hidden from employee", "Employee", 2, false},
		{"restricted group visible to HR", "HR", 2, true},
		{"restricted group visible to Admin", "Admin", 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Allow(ctx, tt.role, tt.accessGroup)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewEngineBadPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "not rego at all {{{")
	assert.Error(t, err)
}
