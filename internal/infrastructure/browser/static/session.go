package static

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
	"reactapp-uitests/internal/infrastructure/browser/waiter"
)

var _ output.SessionPort = (*Session)(nil)

const (
	blankURL     = "about:blank"
	pollInterval = 20 * time.Millisecond

	defaultMaxBodySize = 10 << 20
)

var ErrPageTooLarge = errors.New("page body exceeds size limit")

type Session struct {
	client *http.Client
	cfg    Config

	mu     sync.Mutex
	url    *url.URL
	doc    *goquery.Document
	values map[*html.Node]string
	closed bool
}

func newSession(client *http.Client, cfg Config) *Session {
	s := &Session{client: client, cfg: cfg}
	s.reset(nil, emptyDocument())
	return s
}

func (s *Session) Goto(ctx context.Context, rawURL string, state entity.LoadState) error {
	if err := s.pause(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidURL, err)
	}
	if err := s.load(req); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return s.WaitForLoadState(ctx, state)
}

func (s *Session) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.url == nil {
		return blankURL
	}
	return s.url.String()
}

func (s *Session) Fill(ctx context.Context, sel entity.Selector, text string) error {
	if err := s.pause(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return entity.ErrSessionClosed
	}

	m, err := s.single(sel)
	if err != nil {
		return err
	}
	switch goquery.NodeName(m) {
	case "input", "textarea", "select":
	default:
		return fmt.Errorf("fill %s: <%s> is not a form field", sel, goquery.NodeName(m))
	}
	if _, disabled := m.Attr("disabled"); disabled {
		return fmt.Errorf("fill %s: field is disabled", sel)
	}
	s.values[m.Nodes[0]] = text
	return nil
}

func (s *Session) Click(ctx context.Context, sel entity.Selector, force bool) error {
	if err := s.pause(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return entity.ErrSessionClosed
	}
	m, err := s.single(sel)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !force && !visible(m) {
		s.mu.Unlock()
		return fmt.Errorf("click %s: element is not visible", sel)
	}
	req, err := s.activation(ctx, m)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("click %s: %w", sel, err)
	}
	if req == nil {
		return nil
	}
	if err := s.load(req); err != nil {
		return fmt.Errorf("click %s: %w", sel, err)
	}
	return nil
}

func (s *Session) Count(ctx context.Context, sel entity.Selector) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(sel).Length(), nil
}

func (s *Session) WaitForElement(ctx context.Context, sel entity.Selector, state entity.ElementState) error {
	err := waiter.Until(ctx, pollInterval, func() (bool, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		m := s.find(sel)
		switch state {
		case entity.ElementAttached:
			return m.Length() > 0, nil
		case entity.ElementDetached:
			return m.Length() == 0, nil
		case entity.ElementHidden:
			return m.Length() == 0 || !visible(m.First()), nil
		default:
			return m.Length() > 0 && visible(m.First()), nil
		}
	})
	if err != nil {
		return fmt.Errorf("wait for %s %s: %w", sel, state, err)
	}
	return nil
}

func (s *Session) WaitForURL(ctx context.Context, pattern entity.URLPattern, state entity.LoadState) error {
	if _, err := waiter.PollURL(ctx, s.CurrentURL, pattern, pollInterval); err != nil {
		return err
	}
	return s.WaitForLoadState(ctx, state)
}

// WaitForLoadState returns at once: a document is only published after its
// response has been read in full, and no scripts issue further requests.
func (s *Session) WaitForLoadState(ctx context.Context, state entity.LoadState) error {
	return ctx.Err()
}

func (s *Session) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	return nil, fmt.Errorf("static driver cannot render pages: %w", errors.ErrUnsupported)
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.client.CloseIdleConnections()
	return nil
}

func (s *Session) load(req *http.Request) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return entity.ErrSessionClosed
	}

	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	limit := s.cfg.MaxBodySize
	if limit <= 0 {
		limit = defaultMaxBodySize
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return fmt.Errorf("read %s: %w", resp.Request.URL, err)
	}
	if int64(len(body)) > limit {
		return fmt.Errorf("%w: %s is larger than %d bytes", ErrPageTooLarge, resp.Request.URL, limit)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("parse %s: %w", resp.Request.URL, err)
	}

	s.mu.Lock()
	s.reset(resp.Request.URL, doc)
	s.mu.Unlock()
	return nil
}

func (s *Session) reset(u *url.URL, doc *goquery.Document) {
	s.url = u
	s.doc = doc
	s.values = make(map[*html.Node]string)
}

func (s *Session) pause(ctx context.Context) error {
	if s.cfg.SlowMotion <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.cfg.SlowMotion)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Session) find(sel entity.Selector) *goquery.Selection {
	matches := s.doc.Find(sel.CSS())
	if filter := sel.TextFilter(); filter != "" {
		byName := sel.Kind == entity.ByRole
		matches = matches.FilterFunction(func(_ int, m *goquery.Selection) bool {
			if byName {
				return strings.Contains(accessibleName(m), filter)
			}
			return strings.Contains(m.Text(), filter)
		})
	}
	if sel.Child != "" {
		matches = matches.Find(sel.Child)
	}
	return matches
}

// single enforces one match, like a strict locator.
func (s *Session) single(sel entity.Selector) (*goquery.Selection, error) {
	m := s.find(sel)
	switch m.Length() {
	case 0:
		return nil, fmt.Errorf("%w: %s", entity.ErrElementNotFound, sel)
	case 1:
		return m, nil
	default:
		return nil, fmt.Errorf("%s resolved to %d elements", sel, m.Length())
	}
}

// activation returns the request that clicking m triggers, or nil if none.
func (s *Session) activation(ctx context.Context, m *goquery.Selection) (*http.Request, error) {
	switch goquery.NodeName(m) {
	case "a":
		href, ok := m.Attr("href")
		if !ok {
			return nil, nil
		}
		target, err := s.resolve(href)
		if err != nil {
			return nil, err
		}
		return http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	case "button":
		if t := strings.ToLower(m.AttrOr("type", "submit")); t != "submit" {
			return nil, nil
		}
	case "input":
		if t := strings.ToLower(m.AttrOr("type", "text")); t != "submit" && t != "image" {
			return nil, nil
		}
	default:
		return nil, nil
	}
	if _, disabled := m.Attr("disabled"); disabled {
		return nil, nil
	}

	form := m.Closest("form")
	if form.Length() == 0 {
		return nil, nil
	}
	return s.submission(ctx, form, m)
}

func (s *Session) submission(ctx context.Context, form, submitter *goquery.Selection) (*http.Request, error) {
	action := submitter.AttrOr("formaction", form.AttrOr("action", ""))
	method := strings.ToUpper(submitter.AttrOr("formmethod", form.AttrOr("method", http.MethodGet)))

	target, err := s.resolve(action)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	form.Find("input, textarea, select").Each(func(_ int, field *goquery.Selection) {
		name, ok := field.Attr("name")
		if !ok || name == "" {
			return
		}
		if _, disabled := field.Attr("disabled"); disabled {
			return
		}
		node := field.Nodes[0]
		switch strings.ToLower(field.AttrOr("type", "")) {
		case "submit", "button", "image", "reset", "file":
			return
		case "checkbox", "radio":
			if _, checked := field.Attr("checked"); !checked {
				return
			}
			values.Add(name, field.AttrOr("value", "on"))
			return
		}
		if v, filled := s.values[node]; filled {
			values.Add(name, v)
			return
		}
		switch goquery.NodeName(field) {
		case "textarea":
			values.Add(name, field.Text())
		case "select":
			opt := field.Find("option[selected]").First()
			if opt.Length() == 0 {
				opt = field.Find("option").First()
			}
			if opt.Length() > 0 {
				values.Add(name, opt.AttrOr("value", opt.Text()))
			}
		default:
			values.Add(name, field.AttrOr("value", ""))
		}
	})
	if name, ok := submitter.Attr("name"); ok && name != "" {
		values.Add(name, submitter.AttrOr("value", ""))
	}

	if method == http.MethodPost {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), strings.NewReader(values.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}

	target.RawQuery = values.Encode()
	return http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
}

func (s *Session) resolve(ref string) (*url.URL, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidURL, err)
	}
	if s.url == nil {
		if !parsed.IsAbs() {
			return nil, fmt.Errorf("%w: relative %q on a blank page", entity.ErrInvalidURL, ref)
		}
		return parsed, nil
	}
	return s.url.ResolveReference(parsed), nil
}

// visible approximates rendering: nothing on the path to the root may be hidden.
func visible(m *goquery.Selection) bool {
	if m.Length() == 0 {
		return false
	}
	if goquery.NodeName(m) == "input" && strings.EqualFold(m.AttrOr("type", ""), "hidden") {
		return false
	}
	for n := m.Nodes[0]; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		for _, a := range n.Attr {
			switch a.Key {
			case "hidden":
				return false
			case "style":
				style := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
				if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
					return false
				}
			}
		}
	}
	return true
}

func accessibleName(m *goquery.Selection) string {
	if label, ok := m.Attr("aria-label"); ok {
		return label
	}
	if goquery.NodeName(m) == "input" {
		return m.AttrOr("value", "")
	}
	return strings.TrimSpace(m.Text())
}

func emptyDocument() *goquery.Document {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader("<html><head></head><body></body></html>"))
	return doc
}
