package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"reactapp-uitests/internal/application/port/input"
	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/application/service"
	"reactapp-uitests/internal/domain/entity"
	"reactapp-uitests/internal/infrastructure/artifacts"
	"reactapp-uitests/internal/infrastructure/browser/playwright"
	"reactapp-uitests/internal/infrastructure/browser/rod"
	"reactapp-uitests/internal/infrastructure/browser/static"
	"reactapp-uitests/internal/infrastructure/logger"
	"reactapp-uitests/internal/usecase/navigation"
	"reactapp-uitests/internal/usecase/runner"
	"reactapp-uitests/internal/usecase/scenarios"
)

const (
	DriverRod        = "rod"
	DriverPlaywright = "playwright"
	DriverStatic     = "static"
)

var ErrUnknownDriver = errors.New("unknown browser driver")

type Container struct {
	Browser   output.BrowserPort
	Logger    output.LoggerPort
	Navigator *navigation.Navigator
	Scenarios *service.ScenarioRegistryImpl
	Runner    input.ScenarioRunner
}

type Config struct {
	Driver string
	Run    entity.RunConfiguration

	LogDir     string
	LogLevel   string
	LogConsole bool
	// Logger, when set, is used instead of building one from the Log* fields.
	Logger output.LoggerPort

	// ArtifactsDir receives failure screenshots; empty disables them.
	ArtifactsDir string

	// Transport is used by the static driver only.
	Transport http.RoundTripper
	// InstallPlaywright downloads the playwright driver and browser first.
	InstallPlaywright bool
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log := cfg.Logger
	if log == nil {
		adapter, err := logger.NewLoggerAdapter(logger.Options{
			Dir:     cfg.LogDir,
			Name:    "uitest_" + cfg.Driver,
			Level:   cfg.LogLevel,
			Console: cfg.LogConsole,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		log = adapter
	}

	browser, err := newBrowser(ctx, cfg)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}
	log.Info("Browser ready",
		"driver", cfg.Driver,
		"headless", cfg.Run.Headless,
		"slow_mo_ms", cfg.Run.SlowMoMs,
		"timeout_ms", cfg.Run.DefaultTimeout().Milliseconds(),
	)

	nav := navigation.New(cfg.Run, log)

	registry := service.NewScenarioRegistry()
	for _, s := range scenarios.All(scenarios.Deps{
		Navigator:        nav,
		Logger:           log,
		RejectionTimeout: cfg.Run.SignalRTimeout(),
	}) {
		registry.Register(s)
	}

	var store output.ArtifactPort
	if cfg.ArtifactsDir != "" {
		store = artifacts.NewStore(cfg.ArtifactsDir)
	}

	return &Container{
		Browser:   browser,
		Logger:    log,
		Navigator: nav,
		Scenarios: registry,
		Runner:    runner.New(browser, registry, store, log),
	}, nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		if err := c.Browser.Close(); err != nil && c.Logger != nil {
			c.Logger.Warn("Browser close failed", "error", err)
		}
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func newBrowser(ctx context.Context, cfg Config) (output.BrowserPort, error) {
	switch cfg.Driver {
	case DriverRod, "":
		return rod.NewBrowserAdapter(ctx, rod.ConfigFrom(cfg.Run))
	case DriverPlaywright:
		pwCfg := playwright.ConfigFrom(cfg.Run)
		pwCfg.Install = cfg.InstallPlaywright
		return playwright.NewBrowserAdapter(pwCfg)
	case DriverStatic:
		staticCfg := static.ConfigFrom(cfg.Run)
		staticCfg.Transport = cfg.Transport
		return static.NewBrowserAdapter(staticCfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
