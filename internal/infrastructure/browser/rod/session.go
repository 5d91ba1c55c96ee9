package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
	"reactapp-uitests/internal/infrastructure/browser/waiter"
)

var _ output.SessionPort = (*Session)(nil)

const (
	networkIdleWindow = 500 * time.Millisecond
	pollInterval      = 100 * time.Millisecond
)

type Session struct {
	page    *rod.Page
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

func newSession(page *rod.Page, timeout time.Duration) *Session {
	return &Session{page: page, timeout: timeout}
}

// on returns the page bound to ctx, falling back to the session timeout when ctx has no deadline.
func (s *Session) on(ctx context.Context) (*rod.Page, context.CancelFunc, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, nil, entity.ErrSessionClosed
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		return s.page.Context(ctx), cancel, nil
	}
	return s.page.Context(ctx), func() {}, nil
}

func (s *Session) Goto(ctx context.Context, url string, state entity.LoadState) error {
	p, cancel, err := s.on(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return s.waitLoadState(p, state)
}

func (s *Session) CurrentURL() string {
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (s *Session) Fill(ctx context.Context, sel entity.Selector, text string) error {
	p, cancel, err := s.on(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	el, err := element(p, sel)
	if err != nil {
		return fmt.Errorf("field not found: %s: %w", sel, err)
	}
	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (s *Session) Click(ctx context.Context, sel entity.Selector, force bool) error {
	p, cancel, err := s.on(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	el, err := element(p, sel)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", sel, err)
	}

	if force {
		// a DOM click skips the hover, scroll and occlusion checks of a mouse click
		if _, err := el.Eval(`() => this.click()`); err != nil {
			return fmt.Errorf("forced click failed: %w", err)
		}
		return nil
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (s *Session) Count(ctx context.Context, sel entity.Selector) (int, error) {
	p, cancel, err := s.on(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()

	els, err := elements(p, sel)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

func (s *Session) WaitForElement(ctx context.Context, sel entity.Selector, state entity.ElementState) error {
	p, cancel, err := s.on(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	return waiter.Until(p.GetContext(), pollInterval, func() (bool, error) {
		els, err := elements(p, sel)
		if err != nil {
			return false, err
		}
		switch state {
		case entity.ElementAttached:
			return len(els) > 0, nil
		case entity.ElementDetached:
			return len(els) == 0, nil
		case entity.ElementHidden:
			if len(els) == 0 {
				return true, nil
			}
			visible, err := els.First().Visible()
			return err == nil && !visible, nil
		default:
			if len(els) == 0 {
				return false, nil
			}
			visible, err := els.First().Visible()
			return err == nil && visible, nil
		}
	})
}

func (s *Session) WaitForURL(ctx context.Context, pattern entity.URLPattern, state entity.LoadState) error {
	p, cancel, err := s.on(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err := waiter.PollURL(p.GetContext(), s.CurrentURL, pattern, pollInterval); err != nil {
		return err
	}
	return s.waitLoadState(p, state)
}

func (s *Session) WaitForLoadState(ctx context.Context, state entity.LoadState) error {
	p, cancel, err := s.on(ctx)
	if err != nil {
		return err
	}
	defer cancel()
	return s.waitLoadState(p, state)
}

func (s *Session) waitLoadState(p *rod.Page, state entity.LoadState) error {
	switch state {
	case entity.LoadStateDOMContentLoaded:
		return waiter.Until(p.GetContext(), pollInterval, func() (bool, error) {
			res, err := p.Eval(`() => document.readyState`)
			if err != nil {
				return false, err
			}
			return res.Value.Str() != "loading", nil
		})
	case entity.LoadStateNetworkIdle:
		if err := p.WaitLoad(); err != nil {
			return fmt.Errorf("wait load: %w", err)
		}
		p.WaitRequestIdle(networkIdleWindow, nil, nil, nil)()
		return p.GetContext().Err()
	default:
		if err := p.WaitLoad(); err != nil {
			return fmt.Errorf("wait load: %w", err)
		}
		return nil
	}
}

func (s *Session) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	p, cancel, err := s.on(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	data, err := p.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	imgCfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   data,
		Format: "jpeg",
		Width:  imgCfg.Width,
		Height: imgCfg.Height,
	}, nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.page.Close()
}

// element retries until sel matches or the page context expires.
func element(p *rod.Page, sel entity.Selector) (*rod.Element, error) {
	var el *rod.Element
	var err error
	if re := sel.TextRegexp(); re != "" {
		el, err = p.ElementR(sel.CSS(), re)
	} else {
		el, err = p.Element(sel.CSS())
	}
	if err != nil {
		return nil, err
	}
	if sel.Child != "" {
		return el.Element(sel.Child)
	}
	return el, nil
}

// elements returns the current matches without retrying.
func elements(p *rod.Page, sel entity.Selector) (rod.Elements, error) {
	els, err := p.Elements(sel.CSS())
	if err != nil {
		return nil, err
	}

	filter := sel.TextFilter()
	var result rod.Elements
	for _, el := range els {
		if filter != "" {
			text, err := el.Text()
			if err != nil || !strings.Contains(text, filter) {
				continue
			}
		}
		if sel.Child == "" {
			result = append(result, el)
			continue
		}
		children, err := el.Elements(sel.Child)
		if err != nil {
			return nil, err
		}
		result = append(result, children...)
	}
	return result, nil
}
