package input

import (
	"context"

	"reactapp-uitests/internal/domain/entity"
)

type RunRequest struct {
	Target entity.ScenarioTarget
	// Scenarios selects scenarios by name; empty runs every registered scenario.
	Scenarios []string
}

type ScenarioRunner interface {
	Execute(ctx context.Context, req RunRequest) (*entity.RunReport, error)
}
