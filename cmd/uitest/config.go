package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"reactapp-uitests/internal/infrastructure/env"
)

type configView struct {
	AppEnv   string   `yaml:"app_env"`
	EnvFiles []string `yaml:"env_files"`

	BaseURL string `yaml:"base_url"`
	Driver  string `yaml:"driver"`

	Headless         bool    `yaml:"headless"`
	SlowMoMs         float64 `yaml:"slow_mo_ms"`
	DefaultTimeoutMs float64 `yaml:"default_timeout_ms"`
	SignalRTimeoutMs float64 `yaml:"signalr_timeout_ms"`

	LogLevel     string `yaml:"log_level"`
	LogDir       string `yaml:"log_dir"`
	ArtifactsDir string `yaml:"artifacts_dir"`
	Email        string `yaml:"email,omitempty"`

	Warnings []string `yaml:"warnings,omitempty"`
}

func newConfigCmd(cfg *env.EnvService) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := loadSettings(cfg)
			run, problems := cfg.RunConfiguration()

			view := configView{
				AppEnv:           s.AppEnv,
				EnvFiles:         cfg.Loaded(),
				BaseURL:          s.BaseURL,
				Driver:           s.Driver,
				Headless:         run.Headless,
				SlowMoMs:         run.SlowMoMs,
				DefaultTimeoutMs: run.DefaultTimeoutMs,
				SignalRTimeoutMs: run.SignalRTimeoutMs,
				LogLevel:         s.LogLevel,
				LogDir:           s.LogDir,
				ArtifactsDir:     s.ArtifactsDir,
				Email:            s.Email,
			}
			for _, p := range problems {
				view.Warnings = append(view.Warnings, p.Error())
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(view); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
