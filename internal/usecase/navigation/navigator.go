package navigation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
)

// Action is the interaction whose side effect is a navigation, typically a click.
type Action func(ctx context.Context) error

type Navigator struct {
	logger  output.LoggerPort
	timeout time.Duration
}

func New(cfg entity.RunConfiguration, logger output.LoggerPort) *Navigator {
	return &Navigator{
		logger:  logger.Named("navigation"),
		timeout: cfg.DefaultTimeout(),
	}
}

func (n *Navigator) Timeout() time.Duration {
	return n.timeout
}

// WithTimeout returns a copy of n that uses d as its default timeout.
func (n *Navigator) WithTimeout(d time.Duration) *Navigator {
	if d <= 0 {
		return n
	}
	cp := *n
	cp.timeout = d
	return &cp
}

// NavigateTo loads target in session and waits for the load event.
func (n *Navigator) NavigateTo(ctx context.Context, session output.SessionPort, target entity.NavigationTarget) error {
	dest := target.URL()
	start := time.Now()
	n.logger.Debug("Navigating", "url", dest, "timeout", n.timeout)

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := session.Goto(ctx, dest, entity.LoadStateLoad); err != nil {
		if isDeadline(ctx, err) {
			terr := &entity.NavigationTimeoutError{
				Target:     dest,
				LastURL:    session.CurrentURL(),
				Timeout:    n.timeout,
				Underlying: err,
			}
			n.logger.Error("Navigation timed out", "url", dest, "error", terr)
			return terr
		}
		n.logger.Error("Navigation failed", "url", dest, "error", err)
		return fmt.Errorf("navigate to %s: %w", dest, err)
	}

	n.logger.Info("Navigated", "url", session.CurrentURL(), "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// PerformActionAndAwaitURL runs action while watching for a URL matching cond.
// It returns once both finished. A deadline on either side yields a
// NavigationTimeoutError; the other side is cancelled before returning.
//
// The watcher observes URLs, not navigations: when the page already matches
// cond before action runs, the watcher is satisfied immediately and only the
// action is awaited. Callers that need a fresh navigation must start from a
// URL the pattern does not match.
func (n *Navigator) PerformActionAndAwaitURL(
	ctx context.Context,
	session output.SessionPort,
	action Action,
	cond entity.WaitCondition,
) error {
	timeout := cond.Timeout
	if timeout <= 0 {
		timeout = n.timeout
	}
	state := cond.LoadState
	if state == "" {
		state = entity.LoadStateLoad
	}
	start := time.Now()
	n.logger.Debug("Awaiting navigation", "pattern", cond.URL.String(), "timeout", timeout, "load_state", state)
	if before := session.CurrentURL(); cond.URL.Match(before) {
		n.logger.Debug("Already at target before action", "url", before, "pattern", cond.URL.String())
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := session.WaitForURL(gctx, cond.URL, state); err != nil {
			return fmt.Errorf("wait for url %s: %w", cond.URL, err)
		}
		return nil
	})
	g.Go(func() error {
		if err := action(gctx); err != nil {
			return fmt.Errorf("action: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if err == nil {
		n.logger.Info("Navigation completed", "url", session.CurrentURL(), "duration_ms", time.Since(start).Milliseconds())
		return nil
	}

	if isDeadline(ctx, err) {
		terr := &entity.NavigationTimeoutError{
			Target:     cond.URL.String(),
			LastURL:    session.CurrentURL(),
			Timeout:    timeout,
			Underlying: err,
		}
		n.logger.Error("Navigation timed out", "pattern", cond.URL.String(), "error", terr)
		return terr
	}

	n.logger.Error("Navigation action failed", "pattern", cond.URL.String(), "error", err)
	return err
}

// WaitForControl waits until sel is visible.
func (n *Navigator) WaitForControl(ctx context.Context, session output.SessionPort, sel entity.Selector, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := session.WaitForElement(ctx, sel, entity.ElementVisible); err != nil {
		if isDeadline(ctx, err) {
			return &entity.ElementNotReadyError{
				Selector:   sel.String(),
				State:      entity.ElementVisible,
				Timeout:    timeout,
				Underlying: err,
			}
		}
		return fmt.Errorf("wait for %s: %w", sel, err)
	}
	return nil
}

// WaitForNetworkIdle waits until the session has no in-flight requests.
func (n *Navigator) WaitForNetworkIdle(ctx context.Context, session output.SessionPort, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = n.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := session.WaitForLoadState(ctx, entity.LoadStateNetworkIdle); err != nil {
		if isDeadline(ctx, err) {
			return &entity.NavigationTimeoutError{
				Target:     string(entity.LoadStateNetworkIdle),
				LastURL:    session.CurrentURL(),
				Timeout:    timeout,
				Underlying: err,
			}
		}
		return fmt.Errorf("wait for network idle: %w", err)
	}
	return nil
}

func isDeadline(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}
