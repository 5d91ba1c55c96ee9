package main

import (
	"github.com/spf13/cobra"

	"reactapp-uitests/internal/infrastructure/env"
)

const (
	defaultBaseURL      = "http://localhost:3000"
	defaultDriver       = "rod"
	defaultLogDir       = "log"
	defaultArtifactsDir = "artifacts"
)

// settings are the CLI-level values read from the environment; flags override them.
type settings struct {
	AppEnv       string
	BaseURL      string
	Driver       string
	LogLevel     string
	LogDir       string
	ArtifactsDir string
	Email        string
	Password     string
}

func loadSettings(cfg *env.EnvService) settings {
	return settings{
		AppEnv:       cfg.GetWithDefault("APP_ENV", "dev"),
		BaseURL:      cfg.GetWithDefault("BASE_URL", defaultBaseURL),
		Driver:       cfg.GetWithDefault("BROWSER_DRIVER", defaultDriver),
		LogLevel:     cfg.GetWithDefault("LOG_LEVEL", "info"),
		LogDir:       cfg.GetWithDefault("LOG_DIR", defaultLogDir),
		ArtifactsDir: cfg.GetWithDefault("ARTIFACTS_DIR", defaultArtifactsDir),
		Email:        cfg.Get("UITEST_EMAIL"),
		Password:     cfg.Get("UITEST_PASSWORD"),
	}
}

func newRootCmd(cfg *env.EnvService) *cobra.Command {
	root := &cobra.Command{
		Use:   "uitest",
		Short: "Browser-driven end-to-end checks for the rooms application",
		Long: `uitest drives the rooms application through its login and registration
pages with a real or static browser and reports which scenarios pass.`,
		SilenceUsage: true,
	}

	root.AddCommand(newRunCmd(cfg))
	root.AddCommand(newListCmd())
	root.AddCommand(newConfigCmd(cfg))
	root.AddCommand(newServeDemoCmd(cfg))
	return root
}
