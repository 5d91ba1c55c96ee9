package playwright

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"time"

	"github.com/playwright-community/playwright-go"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
	"reactapp-uitests/internal/infrastructure/browser/waiter"
)

var _ output.SessionPort = (*Session)(nil)

const pollInterval = 100 * time.Millisecond

// Session adapts a playwright page. Playwright calls take a timeout rather than
// a context, so the remaining ctx budget is passed as the timeout option.
type Session struct {
	page playwright.Page
}

func (s *Session) Goto(ctx context.Context, url string, state entity.LoadState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: waitUntil(state),
		Timeout:   remaining(ctx),
	})
	if err != nil {
		return wrap("navigation failed", err)
	}
	return nil
}

func (s *Session) CurrentURL() string {
	return s.page.URL()
}

func (s *Session) Fill(ctx context.Context, sel entity.Selector, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.locator(sel).Fill(text, playwright.LocatorFillOptions{Timeout: remaining(ctx)}); err != nil {
		return wrap(fmt.Sprintf("fill %s", sel), err)
	}
	return nil
}

func (s *Session) Click(ctx context.Context, sel entity.Selector, force bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.locator(sel).Click(playwright.LocatorClickOptions{
		Force:   playwright.Bool(force),
		Timeout: remaining(ctx),
	})
	if err != nil {
		return wrap(fmt.Sprintf("click %s", sel), err)
	}
	return nil
}

func (s *Session) Count(ctx context.Context, sel entity.Selector) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := s.locator(sel).Count()
	if err != nil {
		return 0, wrap(fmt.Sprintf("count %s", sel), err)
	}
	return n, nil
}

func (s *Session) WaitForElement(ctx context.Context, sel entity.Selector, state entity.ElementState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.locator(sel).WaitFor(playwright.LocatorWaitForOptions{
		State:   selectorState(state),
		Timeout: remaining(ctx),
	})
	if err != nil {
		return wrap(fmt.Sprintf("wait for %s %s", sel, state), err)
	}
	return nil
}

// WaitForURL polls instead of using page.WaitForURL so that cancelling ctx
// releases the watcher immediately.
func (s *Session) WaitForURL(ctx context.Context, pattern entity.URLPattern, state entity.LoadState) error {
	if _, err := waiter.PollURL(ctx, s.page.URL, pattern, pollInterval); err != nil {
		return err
	}
	return s.WaitForLoadState(ctx, state)
}

func (s *Session) WaitForLoadState(ctx context.Context, state entity.LoadState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   loadState(state),
		Timeout: remaining(ctx),
	})
	if err != nil {
		return wrap(fmt.Sprintf("wait for %s", state), err)
	}
	return nil
}

func (s *Session) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Type:    playwright.ScreenshotTypeJpeg,
		Quality: playwright.Int(80),
		Timeout: remaining(ctx),
	})
	if err != nil {
		return nil, wrap("screenshot failed", err)
	}

	imgCfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}
	return &entity.Screenshot{Data: data, Format: "jpeg", Width: imgCfg.Width, Height: imgCfg.Height}, nil
}

func (s *Session) Close() error {
	if s.page.IsClosed() {
		return nil
	}
	return s.page.Close()
}

func (s *Session) locator(sel entity.Selector) playwright.Locator {
	var loc playwright.Locator
	switch sel.Kind {
	case entity.ByTestID:
		loc = s.page.GetByTestId(sel.Value)
	case entity.ByRole:
		opts := playwright.PageGetByRoleOptions{}
		if sel.Name != "" {
			opts.Name = sel.Name
		}
		loc = s.page.GetByRole(playwright.AriaRole(sel.Value), opts)
	case entity.ByText:
		loc = s.page.Locator(fmt.Sprintf("%s:has-text(%q)", sel.Name, sel.Value))
	default:
		loc = s.page.Locator(sel.Value)
	}
	if sel.Child != "" {
		loc = loc.Locator(sel.Child)
	}
	return loc
}

// remaining converts the ctx deadline to a playwright timeout in ms; nil keeps the page default.
func remaining(ctx context.Context) *float64 {
	deadline, ok := ctx.Deadline()
	if !ok {
		return nil
	}
	ms := float64(time.Until(deadline).Milliseconds())
	if ms < 1 {
		ms = 1
	}
	return playwright.Float(ms)
}

func wrap(op string, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%s: %w: %w", op, context.DeadlineExceeded, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func waitUntil(state entity.LoadState) *playwright.WaitUntilState {
	switch state {
	case entity.LoadStateDOMContentLoaded:
		return playwright.WaitUntilStateDomcontentloaded
	case entity.LoadStateNetworkIdle:
		return playwright.WaitUntilStateNetworkidle
	default:
		return playwright.WaitUntilStateLoad
	}
}

func loadState(state entity.LoadState) *playwright.LoadState {
	switch state {
	case entity.LoadStateDOMContentLoaded:
		return playwright.LoadStateDomcontentloaded
	case entity.LoadStateNetworkIdle:
		return playwright.LoadStateNetworkidle
	default:
		return playwright.LoadStateLoad
	}
}

func selectorState(state entity.ElementState) *playwright.WaitForSelectorState {
	switch state {
	case entity.ElementHidden:
		return playwright.WaitForSelectorStateHidden
	case entity.ElementAttached:
		return playwright.WaitForSelectorStateAttached
	case entity.ElementDetached:
		return playwright.WaitForSelectorStateDetached
	default:
		return playwright.WaitForSelectorStateVisible
	}
}
