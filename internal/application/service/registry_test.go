package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
)

type stubScenario struct {
	name string
	desc string
}

func (s stubScenario) Name() string        { return s.name }
func (s stubScenario) Description() string { return s.desc }
func (s stubScenario) Run(context.Context, output.SessionPort, entity.ScenarioTarget) error {
	return nil
}

func TestScenarioRegistry_KeepsOrder(t *testing.T) {
	r := NewScenarioRegistry()
	r.Register(stubScenario{name: "register"})
	r.Register(stubScenario{name: "journey"})
	r.Register(stubScenario{name: "password-mismatch"})

	assert.Equal(t, []string{"register", "journey", "password-mismatch"}, r.Names())

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, "journey", all[1].Name())
}

func TestScenarioRegistry_ReplaceKeepsPosition(t *testing.T) {
	r := NewScenarioRegistry()
	r.Register(stubScenario{name: "a", desc: "first"})
	r.Register(stubScenario{name: "b"})
	r.Register(stubScenario{name: "a", desc: "second"})

	assert.Equal(t, []string{"a", "b"}, r.Names())
	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "second", got.Description())
}

func TestScenarioRegistry_GetMissing(t *testing.T) {
	r := NewScenarioRegistry()
	_, ok := r.Get("nope")
	assert.False(t, ok)
	assert.Empty(t, r.All())
}
