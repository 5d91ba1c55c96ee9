package playwright

import (
	"context"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

type Config struct {
	Headless         bool
	SlowMoMs         float64
	DefaultTimeoutMs float64
	// Engine is chromium, firefox or webkit.
	Engine string
	// Install downloads the driver and browsers before starting.
	Install bool
}

func ConfigFrom(cfg entity.RunConfiguration) Config {
	return Config{
		Headless:         cfg.Headless,
		SlowMoMs:         cfg.SlowMoMs,
		DefaultTimeoutMs: cfg.DefaultTimeoutMs,
		Engine:           "chromium",
	}
}

type BrowserAdapter struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	timeout float64

	mu     sync.Mutex
	closed bool
}

func NewBrowserAdapter(cfg Config) (*BrowserAdapter, error) {
	if cfg.Install {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{engineName(cfg.Engine)}}); err != nil {
			return nil, fmt.Errorf("install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	var bt playwright.BrowserType
	switch engineName(cfg.Engine) {
	case "firefox":
		bt = pw.Firefox
	case "webkit":
		bt = pw.WebKit
	default:
		bt = pw.Chromium
	}

	browser, err := bt.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(cfg.SlowMoMs),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch %s: %w", engineName(cfg.Engine), err)
	}

	timeout := cfg.DefaultTimeoutMs
	if timeout <= 0 {
		timeout = entity.DefaultTimeoutMs
	}

	return &BrowserAdapter{
		pw:      pw,
		browser: browser,
		timeout: timeout,
	}, nil
}

func (b *BrowserAdapter) NewSession(ctx context.Context) (output.SessionPort, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, entity.ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := b.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	page.SetDefaultTimeout(b.timeout)
	page.SetDefaultNavigationTimeout(b.timeout)
	return &Session{page: page}, nil
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
	if b.pw != nil {
		if stopErr := b.pw.Stop(); err == nil {
			err = stopErr
		}
	}
	return err
}

func engineName(engine string) string {
	switch engine {
	case "firefox", "webkit":
		return engine
	}
	return "chromium"
}
