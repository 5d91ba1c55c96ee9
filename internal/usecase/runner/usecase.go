package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reactapp-uitests/internal/application/port/input"
	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
)

var _ input.ScenarioRunner = (*UseCase)(nil)

var ErrUnknownScenario = errors.New("unknown scenario")

const screenshotTimeout = 10 * time.Second

type UseCase struct {
	browser   output.BrowserPort
	scenarios output.ScenarioRegistry
	artifacts output.ArtifactPort
	logger    output.LoggerPort
}

// New builds the runner. artifacts may be nil to skip failure screenshots.
func New(
	browser output.BrowserPort,
	scenarios output.ScenarioRegistry,
	artifacts output.ArtifactPort,
	logger output.LoggerPort,
) *UseCase {
	return &UseCase{
		browser:   browser,
		scenarios: scenarios,
		artifacts: artifacts,
		logger:    logger.Named("runner"),
	}
}

// Execute runs the selected scenarios one after another, each in a fresh
// session. Scenario failures are reported, not returned; the error is only
// set for an invalid request or a cancelled ctx.
func (uc *UseCase) Execute(ctx context.Context, req input.RunRequest) (*entity.RunReport, error) {
	selected, err := uc.selectScenarios(req.Scenarios)
	if err != nil {
		return nil, err
	}

	report := &entity.RunReport{}
	start := time.Now()
	defer func() { report.Duration = time.Since(start) }()

	for _, scenario := range selected {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result := uc.runOne(ctx, scenario, req.Target)
		report.Results = append(report.Results, result)
	}

	uc.logger.Info("Run finished",
		"scenarios", len(report.Results),
		"failed", len(report.Failed()),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

func (uc *UseCase) selectScenarios(names []string) ([]output.ScenarioPort, error) {
	if len(names) == 0 {
		return uc.scenarios.All(), nil
	}
	selected := make([]output.ScenarioPort, 0, len(names))
	for _, name := range names {
		scenario, ok := uc.scenarios.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
		}
		selected = append(selected, scenario)
	}
	return selected, nil
}

func (uc *UseCase) runOne(ctx context.Context, scenario output.ScenarioPort, target entity.ScenarioTarget) entity.ScenarioResult {
	log := uc.logger.WithField("scenario", scenario.Name())
	log.Info("Scenario started")

	start := time.Now()
	result := entity.ScenarioResult{Name: scenario.Name(), Status: entity.ScenarioPassed}

	session, err := uc.browser.NewSession(ctx)
	if err != nil {
		result.Status = entity.ScenarioFailed
		result.Err = fmt.Errorf("open session: %w", err)
		result.Duration = time.Since(start)
		log.Error("Scenario failed", "error", result.Err)
		return result
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("Session close failed", "error", err)
		}
	}()

	if err := scenario.Run(ctx, session, target); err != nil {
		result.Status = entity.ScenarioFailed
		result.Err = err
		result.Screenshot = uc.captureFailure(ctx, session, scenario.Name(), log)
	}
	result.Duration = time.Since(start)

	if result.Err != nil {
		log.Error("Scenario failed", "error", result.Err, "duration_ms", result.Duration.Milliseconds(), "screenshot", result.Screenshot)
	} else {
		log.Info("Scenario passed", "duration_ms", result.Duration.Milliseconds())
	}
	return result
}

// captureFailure returns the saved screenshot path, or "" when none could be taken.
func (uc *UseCase) captureFailure(ctx context.Context, session output.SessionPort, name string, log output.LoggerPort) string {
	if uc.artifacts == nil {
		return ""
	}

	// the scenario may have failed because ctx expired
	shotCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), screenshotTimeout)
	defer cancel()

	shot, err := session.Screenshot(shotCtx)
	if err != nil {
		if errors.Is(err, errors.ErrUnsupported) {
			log.Debug("Driver cannot take screenshots")
		} else {
			log.Warn("Failure screenshot not taken", "error", err)
		}
		return ""
	}

	path, err := uc.artifacts.SaveScreenshot(name, shot)
	if err != nil {
		log.Warn("Failure screenshot not saved", "error", err)
		return ""
	}
	return path
}
