package output

import (
	"context"

	"reactapp-uitests/internal/domain/entity"
)

// BrowserPort opens sessions. One BrowserPort may back many sessions.
type BrowserPort interface {
	NewSession(ctx context.Context) (SessionPort, error)
	Close() error
}

// SessionPort is a single page/tab. Timeouts are carried by ctx deadlines.
// A session is driven by one logical flow; only CurrentURL may be called
// concurrently with another operation.
type SessionPort interface {
	Goto(ctx context.Context, url string, state entity.LoadState) error
	CurrentURL() string

	Fill(ctx context.Context, sel entity.Selector, text string) error
	// Click bypasses actionability checks (visibility, occlusion) when force is true.
	Click(ctx context.Context, sel entity.Selector, force bool) error
	Count(ctx context.Context, sel entity.Selector) (int, error)

	WaitForElement(ctx context.Context, sel entity.Selector, state entity.ElementState) error
	WaitForURL(ctx context.Context, pattern entity.URLPattern, state entity.LoadState) error
	WaitForLoadState(ctx context.Context, state entity.LoadState) error

	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	Close() error
}
