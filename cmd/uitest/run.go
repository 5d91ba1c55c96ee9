package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"reactapp-uitests/internal/application/port/input"
	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/di"
	"reactapp-uitests/internal/domain/entity"
	"reactapp-uitests/internal/infrastructure/demoapp"
	"reactapp-uitests/internal/infrastructure/env"
)

var errScenariosFailed = errors.New("scenarios failed")

func newRunCmd(cfg *env.EnvService) *cobra.Command {
	s := loadSettings(cfg)
	var (
		demo       bool
		install    bool
		quiet      bool
		runTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run [scenario...]",
		Short: "Run scenarios against the application",
		Long: `Run the named scenarios, or every scenario when none is given.
Each scenario gets a fresh browser session. Failed scenarios leave a
screenshot in the artifacts directory when the driver can take one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runCfg, problems := cfg.RunConfiguration()

			ctx := cmd.Context()
			if runTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, runTimeout)
				defer cancel()
			}

			container, err := di.NewContainer(ctx, di.Config{
				Driver:            s.Driver,
				Run:               runCfg,
				LogDir:            s.LogDir,
				LogLevel:          s.LogLevel,
				LogConsole:        !quiet,
				ArtifactsDir:      s.ArtifactsDir,
				InstallPlaywright: install,
			})
			if err != nil {
				return err
			}
			defer container.Close()

			for _, p := range problems {
				container.Logger.Warn("Configuration value ignored", "error", p)
			}

			baseURL := s.BaseURL
			if demo {
				ln, err := net.Listen("tcp", "127.0.0.1:0")
				if err != nil {
					return fmt.Errorf("listen for demo app: %w", err)
				}
				stopDemo := startDemo(ctx, ln, container.Logger)
				defer stopDemo()
				baseURL = "http://" + ln.Addr().String()
				container.Logger.Info("Demo app started", "url", baseURL)
			}

			report, err := container.Runner.Execute(ctx, input.RunRequest{
				Target: entity.ScenarioTarget{
					BaseURL:     baseURL,
					Credentials: entity.Credentials{Email: s.Email, Password: s.Password},
				},
				Scenarios: args,
			})
			if report != nil {
				printReport(cmd.OutOrStdout(), report)
			}
			if err != nil {
				return err
			}
			if !report.Passed() {
				return fmt.Errorf("%w: %d of %d", errScenariosFailed, len(report.Failed()), len(report.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&s.BaseURL, "base-url", s.BaseURL, "application base URL (BASE_URL)")
	cmd.Flags().StringVar(&s.Driver, "driver", s.Driver, "browser driver: rod, playwright or static (BROWSER_DRIVER)")
	cmd.Flags().StringVar(&s.ArtifactsDir, "artifacts-dir", s.ArtifactsDir, "where failure screenshots go, empty to disable (ARTIFACTS_DIR)")
	cmd.Flags().StringVar(&s.Email, "email", s.Email, "base email for generated accounts (UITEST_EMAIL)")
	cmd.Flags().StringVar(&s.Password, "password", s.Password, "password for generated accounts (UITEST_PASSWORD)")
	cmd.Flags().BoolVar(&demo, "demo", false, "start the demo app in-process and run against it")
	cmd.Flags().BoolVar(&install, "install-playwright", false, "download the playwright driver and browser first")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "log to file only")
	cmd.Flags().DurationVar(&runTimeout, "timeout", 0, "overall run timeout, 0 for none")
	return cmd
}

// startDemo serves the demo app on ln. The returned stop shuts it down, waits
// for it to exit and logs a serve failure; calling it again is a no-op.
func startDemo(ctx context.Context, ln net.Listener, log output.LoggerPort) (stop func()) {
	demoCtx, cancel := context.WithCancel(ctx)
	app := demoapp.New(demoapp.NewStore(0), log, demoapp.Options{})

	errCh := make(chan error, 1)
	go func() { errCh <- serve(demoCtx, ln, app.Handler()) }()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			if err := <-errCh; err != nil {
				log.Error("Demo app stopped with error", "error", err)
			}
		})
	}
}

func printReport(w io.Writer, report *entity.RunReport) {
	for _, r := range report.Results {
		fmt.Fprintf(w, "%-6s %-20s %s\n", r.Status, r.Name, r.Duration.Round(time.Millisecond))
		if r.Err != nil {
			fmt.Fprintf(w, "       %v\n", r.Err)
		}
		if r.Screenshot != "" {
			fmt.Fprintf(w, "       screenshot: %s\n", r.Screenshot)
		}
	}
	fmt.Fprintf(w, "%d passed, %d failed in %s\n",
		len(report.Results)-len(report.Failed()), len(report.Failed()), report.Duration.Round(time.Millisecond))
}
