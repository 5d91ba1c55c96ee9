package static

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reactapp-uitests/internal/domain/entity"
)

const formPage = `<!DOCTYPE html>
<html><body>
<form method="post" action="/submit">
  <div data-testid="name-field"><input name="name" value="initial"></div>
  <textarea name="note">default note</textarea>
  <select name="color"><option value="red">Red</option><option value="blue" selected>Blue</option></select>
  <input type="checkbox" name="agree" checked>
  <input type="checkbox" name="spam">
  <input type="hidden" name="csrf" value="token-1">
  <input name="ignored" disabled value="x">
  <button type="button" data-testid="noop">Preview</button>
  <button type="submit" name="action" value="save" data-testid="save">Save</button>
  <button type="submit" data-testid="hidden-save" style="display: none">Hidden save</button>
</form>
<div hidden><button data-testid="ghost">Ghost</button></div>
<a href="/next?from=link" data-testid="next-link">Next</a>
<button aria-label="Close dialog">x</button>
</body></html>`

type recorded struct {
	mu    sync.Mutex
	forms []url.Values
}

func (r *recorded) last() url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.forms) == 0 {
		return nil
	}
	return r.forms[len(r.forms)-1]
}

func newFormServer(t *testing.T) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	mux := http.NewServeMux()
	mux.HandleFunc("/form", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "visited", Value: "yes", Path: "/"})
		_, _ = w.Write([]byte(formPage))
	})
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		rec.mu.Lock()
		rec.forms = append(rec.forms, r.PostForm)
		rec.mu.Unlock()
		http.Redirect(w, r, "/done", http.StatusSeeOther)
	})
	mux.HandleFunc("/done", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("visited")
		visited := err == nil && c.Value == "yes"
		if visited {
			_, _ = w.Write([]byte(`<h1 data-testid="done">Saved</h1>`))
			return
		}
		_, _ = w.Write([]byte(`<h1>No cookie</h1>`))
	})
	mux.HandleFunc("/next", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<p data-testid="from">` + r.URL.Query().Get("from") + `</p>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, rec
}

func openSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	browser := NewBrowserAdapter(cfg)
	s, err := browser.NewSession(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s.(*Session)
}

func TestSession_StartsBlank(t *testing.T) {
	s := openSession(t, Config{})
	assert.Equal(t, "about:blank", s.CurrentURL())

	n, err := s.Count(context.Background(), entity.CSS("button"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSession_SubmitsFilledForm(t *testing.T) {
	srv, rec := newFormServer(t)
	s := openSession(t, Config{})
	ctx := context.Background()

	require.NoError(t, s.Goto(ctx, srv.URL+"/form", entity.LoadStateLoad))
	require.NoError(t, s.Fill(ctx, entity.TestID("name-field").Descendant("input"), "Ada"))
	require.NoError(t, s.Click(ctx, entity.TestID("save"), false))

	assert.Equal(t, srv.URL+"/done", s.CurrentURL())
	n, err := s.Count(ctx, entity.TestID("done"))
	require.NoError(t, err)
	assert.Equal(t, 1, n, "cookie from the form page must be sent")

	form := rec.last()
	require.NotNil(t, form)
	assert.Equal(t, "Ada", form.Get("name"))
	assert.Equal(t, "default note", form.Get("note"))
	assert.Equal(t, "blue", form.Get("color"))
	assert.Equal(t, "on", form.Get("agree"))
	assert.Equal(t, "token-1", form.Get("csrf"))
	assert.Equal(t, "save", form.Get("action"))
	assert.False(t, form.Has("spam"))
	assert.False(t, form.Has("ignored"))
}

func TestSession_HiddenElementsNeedForce(t *testing.T) {
	srv, rec := newFormServer(t)
	s := openSession(t, Config{})
	ctx := context.Background()
	require.NoError(t, s.Goto(ctx, srv.URL+"/form", entity.LoadStateLoad))

	err := s.Click(ctx, entity.TestID("hidden-save"), false)
	assert.ErrorContains(t, err, "not visible")
	assert.Nil(t, rec.last())

	require.NoError(t, s.Click(ctx, entity.TestID("hidden-save"), true))
	assert.Equal(t, srv.URL+"/done", s.CurrentURL())
	assert.NotNil(t, rec.last())
}

func TestSession_ClickLinkAndNonSubmitButton(t *testing.T) {
	srv, rec := newFormServer(t)
	s := openSession(t, Config{})
	ctx := context.Background()
	require.NoError(t, s.Goto(ctx, srv.URL+"/form", entity.LoadStateLoad))

	require.NoError(t, s.Click(ctx, entity.TestID("noop"), false))
	assert.Equal(t, srv.URL+"/form", s.CurrentURL())
	assert.Nil(t, rec.last())

	require.NoError(t, s.Click(ctx, entity.Role("link", "Next"), false))
	assert.Equal(t, srv.URL+"/next?from=link", s.CurrentURL())
	require.NoError(t, s.WaitForElement(ctx, entity.HasText("p", "link"), entity.ElementVisible))
}

func TestSession_Locators(t *testing.T) {
	srv, _ := newFormServer(t)
	s := openSession(t, Config{})
	ctx := context.Background()
	require.NoError(t, s.Goto(ctx, srv.URL+"/form", entity.LoadStateLoad))

	count := func(sel entity.Selector) int {
		n, err := s.Count(ctx, sel)
		require.NoError(t, err)
		return n
	}

	assert.Equal(t, 1, count(entity.HasText("button", "Save")), "substring match excludes 'Hidden save' by case")
	assert.Equal(t, 2, count(entity.HasText("button", "ave")))
	assert.Equal(t, 1, count(entity.Role("button", "Close dialog")))
	assert.Equal(t, 0, count(entity.HasText("button", "Logout")))

	err := s.Fill(ctx, entity.CSS("button"), "x")
	assert.ErrorContains(t, err, "resolved to")

	err = s.Fill(ctx, entity.TestID("missing"), "x")
	assert.ErrorIs(t, err, entity.ErrElementNotFound)

	err = s.Fill(ctx, entity.TestID("save"), "x")
	assert.ErrorContains(t, err, "not a form field")
}

func TestSession_WaitForElementStates(t *testing.T) {
	srv, _ := newFormServer(t)
	s := openSession(t, Config{})
	ctx := context.Background()
	require.NoError(t, s.Goto(ctx, srv.URL+"/form", entity.LoadStateLoad))

	require.NoError(t, s.WaitForElement(ctx, entity.TestID("ghost"), entity.ElementAttached))
	require.NoError(t, s.WaitForElement(ctx, entity.TestID("ghost"), entity.ElementHidden))
	require.NoError(t, s.WaitForElement(ctx, entity.TestID("missing"), entity.ElementDetached))

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := s.WaitForElement(short, entity.TestID("ghost"), entity.ElementVisible)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSession_WaitForURL(t *testing.T) {
	srv, _ := newFormServer(t)
	s := openSession(t, Config{})
	ctx := context.Background()
	require.NoError(t, s.Goto(ctx, srv.URL+"/form", entity.LoadStateLoad))

	require.NoError(t, s.WaitForURL(ctx, entity.Glob("**/form"), entity.LoadStateNetworkIdle))

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := s.WaitForURL(short, entity.Glob("**/done"), entity.LoadStateLoad)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSession_ScreenshotUnsupported(t *testing.T) {
	s := openSession(t, Config{})
	_, err := s.Screenshot(context.Background())
	assert.ErrorIs(t, err, errors.ErrUnsupported)
}

func TestSession_ClosedRejectsInteraction(t *testing.T) {
	srv, _ := newFormServer(t)
	s := openSession(t, Config{})
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Goto(context.Background(), srv.URL+"/form", entity.LoadStateLoad), entity.ErrSessionClosed)
	assert.ErrorIs(t, s.Click(context.Background(), entity.CSS("button"), true), entity.ErrSessionClosed)
}

func TestSession_SlowMotion(t *testing.T) {
	srv, _ := newFormServer(t)
	s := openSession(t, Config{SlowMotion: 30 * time.Millisecond})

	start := time.Now()
	require.NoError(t, s.Goto(context.Background(), srv.URL+"/form", entity.LoadStateLoad))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Fill(ctx, entity.CSS("textarea"), "x"), context.Canceled)
}

func TestBrowserAdapter_SessionsAreIsolated(t *testing.T) {
	srv, _ := newFormServer(t)
	browser := NewBrowserAdapter(Config{})
	ctx := context.Background()

	first, err := browser.NewSession(ctx)
	require.NoError(t, err)
	second, err := browser.NewSession(ctx)
	require.NoError(t, err)

	require.NoError(t, first.Goto(ctx, srv.URL+"/form", entity.LoadStateLoad))
	require.NoError(t, second.Goto(ctx, srv.URL+"/done", entity.LoadStateLoad))

	n, err := second.Count(ctx, entity.TestID("done"))
	require.NoError(t, err)
	assert.Zero(t, n, "cookies must not leak between sessions")

	require.NoError(t, browser.Close())
	_, err = browser.NewSession(ctx)
	assert.ErrorIs(t, err, entity.ErrSessionClosed)
}

func TestBrowserAdapter_Transport(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<p data-testid="via">` + r.Host + `</p>`))
	})
	browser := NewBrowserAdapter(Config{Transport: handlerTransport{handler}})
	s, err := browser.NewSession(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Goto(context.Background(), "http://app.internal/", entity.LoadStateLoad))
	require.NoError(t, s.WaitForElement(context.Background(), entity.HasText("p", "app.internal"), entity.ElementVisible))
}

type handlerTransport struct {
	h http.Handler
}

func (t handlerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	t.h.ServeHTTP(rec, r)
	resp := rec.Result()
	resp.Request = r
	return resp, nil
}

func TestSession_RejectsOversizedPage(t *testing.T) {
	page := `<p data-testid="big">` + strings.Repeat("x", 2048) + `</p>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)

	s := openSession(t, Config{MaxBodySize: 1024})
	err := s.Goto(context.Background(), srv.URL+"/", entity.LoadStateLoad)
	assert.ErrorIs(t, err, ErrPageTooLarge)
	assert.Equal(t, "about:blank", s.CurrentURL(), "a truncated page must not replace the current one")

	s = openSession(t, Config{MaxBodySize: int64(len(page))})
	require.NoError(t, s.Goto(context.Background(), srv.URL+"/", entity.LoadStateLoad))
	n, err := s.Count(context.Background(), entity.TestID("big"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewBrowserAdapter_DefaultBodyLimit(t *testing.T) {
	assert.Equal(t, int64(defaultMaxBodySize), NewBrowserAdapter(Config{}).cfg.MaxBodySize)
}
