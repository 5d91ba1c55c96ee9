package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

const defaultTimeout = 30 * time.Second

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration

	mu     sync.Mutex
	closed bool
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool
	// Bin overrides the browser executable; empty lets the launcher find or download one.
	Bin string
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   true,
		SlowMotion: 0,
		Timeout:    defaultTimeout,
		NoSandbox:  false,
		DevTools:   false,
	}
}

// ConfigFrom maps the run configuration onto launcher settings.
func ConfigFrom(cfg entity.RunConfiguration) BrowserConfig {
	bc := DefaultConfig()
	bc.Headless = cfg.Headless
	bc.SlowMotion = cfg.SlowMo()
	bc.Timeout = cfg.DefaultTimeout()
	return bc
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		Context(ctx).
		ControlURL(url).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		timeout:  cfg.Timeout,
	}, nil
}

func (b *BrowserAdapter) NewSession(ctx context.Context) (output.SessionPort, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, entity.ErrSessionClosed
	}

	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	// detach from the creation ctx so the page outlives it
	return newSession(page.Context(context.Background()), b.timeout), nil
}

func (b *BrowserAdapter) IsReady() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed && b.browser != nil
}

func (b *BrowserAdapter) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var err error
	if b.browser != nil {
		err = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
	return err
}
