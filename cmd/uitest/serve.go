package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"reactapp-uitests/internal/infrastructure/demoapp"
	"reactapp-uitests/internal/infrastructure/env"
	"reactapp-uitests/internal/infrastructure/logger"
)

func newServeDemoCmd(cfg *env.EnvService) *cobra.Command {
	var (
		addr         string
		seedEmail    string
		seedPassword string
		jsonLogs     bool
	)

	cmd := &cobra.Command{
		Use:   "serve-demo",
		Short: "Serve the demo rooms application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := loadSettings(cfg)
			log, err := logger.NewLoggerAdapter(logger.Options{
				Dir:     s.LogDir,
				Name:    "demoapp",
				Level:   s.LogLevel,
				Console: true,
			})
			if err != nil {
				return err
			}
			defer log.Close()

			store := demoapp.NewStore(0)
			if seedEmail != "" {
				if err := store.AddUser(seedEmail, seedPassword); err != nil {
					return fmt.Errorf("seed %s: %w", seedEmail, err)
				}
			}
			app := demoapp.New(store, log, demoapp.Options{
				RequestLogging: true,
				LogLevel:       s.LogLevel,
				JSONLogs:       jsonLogs,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "demo app listening on http://%s\n", ln.Addr())
			return serve(ctx, ln, app.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&seedEmail, "seed-email", "", "register this account at startup")
	cmd.Flags().StringVar(&seedPassword, "seed-password", "Passw0rd!", "password for --seed-email")
	cmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "write access logs as JSON")
	return cmd
}

// serve runs handler on ln until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
