package output

import (
	"context"

	"reactapp-uitests/internal/domain/entity"
)

type ScenarioPort interface {
	Name() string
	Description() string
	Run(ctx context.Context, session SessionPort, target entity.ScenarioTarget) error
}

type ScenarioRegistry interface {
	Register(scenario ScenarioPort)
	Get(name string) (ScenarioPort, bool)
	All() []ScenarioPort
}
