package runner

import (
	"context"

	"github.com/stretchr/testify/mock"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
)

type mockBrowser struct {
	mock.Mock
}

func (m *mockBrowser) NewSession(ctx context.Context) (output.SessionPort, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(output.SessionPort), args.Error(1)
}

func (m *mockBrowser) Close() error {
	args := m.Called()
	return args.Error(0)
}

// mockSession only expects Screenshot and Close; the scenarios here never drive it.
type mockSession struct {
	mock.Mock
	output.SessionPort
}

func (m *mockSession) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Screenshot), args.Error(1)
}

func (m *mockSession) Close() error {
	args := m.Called()
	return args.Error(0)
}

type mockArtifacts struct {
	mock.Mock
}

func (m *mockArtifacts) SaveScreenshot(label string, shot *entity.Screenshot) (string, error) {
	args := m.Called(label, shot)
	return args.String(0), args.Error(1)
}

type funcScenario struct {
	name string
	run  func(ctx context.Context) error
}

func (s funcScenario) Name() string        { return s.name }
func (s funcScenario) Description() string { return "test scenario " + s.name }
func (s funcScenario) Run(ctx context.Context, _ output.SessionPort, _ entity.ScenarioTarget) error {
	return s.run(ctx)
}
