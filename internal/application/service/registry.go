package service

import (
	"sync"

	"reactapp-uitests/internal/application/port/output"
)

var _ output.ScenarioRegistry = (*ScenarioRegistryImpl)(nil)

// ScenarioRegistryImpl keeps registration order so runs are reproducible.
type ScenarioRegistryImpl struct {
	mu        sync.RWMutex
	scenarios map[string]output.ScenarioPort
	order     []string
}

func NewScenarioRegistry() *ScenarioRegistryImpl {
	return &ScenarioRegistryImpl{
		scenarios: make(map[string]output.ScenarioPort),
	}
}

// Register adds scenario, replacing an earlier one with the same name in place.
func (r *ScenarioRegistryImpl) Register(scenario output.ScenarioPort) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := scenario.Name()
	if _, exists := r.scenarios[name]; !exists {
		r.order = append(r.order, name)
	}
	r.scenarios[name] = scenario
}

func (r *ScenarioRegistryImpl) Get(name string) (output.ScenarioPort, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	scenario, ok := r.scenarios[name]
	return scenario, ok
}

func (r *ScenarioRegistryImpl) All() []output.ScenarioPort {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]output.ScenarioPort, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.scenarios[name])
	}
	return result
}

func (r *ScenarioRegistryImpl) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
