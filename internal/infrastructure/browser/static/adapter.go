// Package static is a browser driver without a browser: it fetches pages over
// HTTP, queries them with goquery and submits forms itself. Scripts never run,
// so it suits server-rendered applications and fast in-process tests.
package static

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

type Config struct {
	// Transport lets tests route requests to an in-process handler.
	Transport http.RoundTripper
	// SlowMotion delays every interaction, like a browser slow-mo setting.
	SlowMotion time.Duration
	UserAgent  string
	// MaxBodySize bounds a page body; 0 means 10 MiB.
	MaxBodySize int64
}

func ConfigFrom(cfg entity.RunConfiguration) Config {
	return Config{SlowMotion: cfg.SlowMo()}
}

type BrowserAdapter struct {
	cfg Config

	mu     sync.Mutex
	closed bool
}

func NewBrowserAdapter(cfg Config) *BrowserAdapter {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "reactapp-uitests/static"
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = defaultMaxBodySize
	}
	return &BrowserAdapter{cfg: cfg}
}

// NewSession returns a session with its own cookie jar, like a fresh browser context.
func (b *BrowserAdapter) NewSession(ctx context.Context) (output.SessionPort, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, entity.ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	client := &http.Client{Jar: jar, Transport: b.cfg.Transport}
	return newSession(client, b.cfg), nil
}

func (b *BrowserAdapter) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
