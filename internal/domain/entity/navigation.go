package entity

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

type LoadState string

const (
	LoadStateLoad             LoadState = "load"
	LoadStateDOMContentLoaded LoadState = "domcontentloaded"
	LoadStateNetworkIdle      LoadState = "networkidle"
)

func (s LoadState) Valid() bool {
	switch s {
	case LoadStateLoad, LoadStateDOMContentLoaded, LoadStateNetworkIdle:
		return true
	}
	return false
}

// NavigationTarget is a base URL plus a path relative to it.
type NavigationTarget struct {
	base *url.URL
	path string
}

func NewNavigationTarget(baseURL, relativePath string) (NavigationTarget, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return NavigationTarget{}, fmt.Errorf("%w: %s: %v", ErrInvalidURL, baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return NavigationTarget{}, fmt.Errorf("%w: %q", ErrInvalidURL, baseURL)
	}
	// base paths are directories: "http://h/app" + "login" is "http://h/app/login"
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
		if u.RawPath != "" {
			u.RawPath += "/"
		}
	}
	u.RawQuery = ""
	u.Fragment = ""
	return NavigationTarget{base: u, path: relativePath}, nil
}

func (t NavigationTarget) BaseURL() string {
	if t.base == nil {
		return ""
	}
	return t.base.String()
}

func (t NavigationTarget) Path() string {
	return t.path
}

func (t NavigationTarget) URL() string {
	if t.base == nil {
		return ""
	}
	ref, err := url.Parse(t.path)
	if err != nil {
		return t.base.JoinPath(t.path).String()
	}
	return t.base.ResolveReference(ref).String()
}

func (t NavigationTarget) String() string {
	return t.URL()
}

// URLPattern matches a full URL either by glob ("**/my-rooms") or by regexp.
type URLPattern struct {
	glob string
	re   *regexp.Regexp
}

func Glob(pattern string) URLPattern {
	return URLPattern{glob: pattern}
}

func Regexp(re *regexp.Regexp) URLPattern {
	return URLPattern{re: re}
}

func (p URLPattern) IsZero() bool {
	return p.glob == "" && p.re == nil
}

func (p URLPattern) Match(rawURL string) bool {
	if p.re != nil {
		return p.re.MatchString(rawURL)
	}
	if p.glob == "" {
		return false
	}
	ok, err := doublestar.Match(p.glob, rawURL)
	return err == nil && ok
}

func (p URLPattern) String() string {
	if p.re != nil {
		return p.re.String()
	}
	return p.glob
}

type WaitCondition struct {
	URL       URLPattern
	Timeout   time.Duration
	LoadState LoadState
}
