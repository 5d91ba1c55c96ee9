// Package waiter polls session state for drivers that have no native,
// cancellable URL wait.
package waiter

import (
	"context"
	"fmt"
	"time"

	"reactapp-uitests/internal/domain/entity"
)

const DefaultInterval = 50 * time.Millisecond

// PollURL returns the first URL reported by current that matches pattern.
// On ctx expiry the error wraps ctx.Err() and names the last URL seen.
func PollURL(ctx context.Context, current func() string, pattern entity.URLPattern, interval time.Duration) (string, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last string
	for {
		last = current()
		if pattern.Match(last) {
			return last, nil
		}
		select {
		case <-ctx.Done():
			return last, fmt.Errorf("url %q does not match %s: %w", last, pattern, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Until polls cond until it reports true, fails, or ctx expires.
func Until(ctx context.Context, interval time.Duration, cond func() (bool, error)) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
