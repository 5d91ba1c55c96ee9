package entity

import (
	"fmt"
	"regexp"
	"strings"
)

type SelectorKind int

const (
	ByCSS SelectorKind = iota
	ByTestID
	ByText
	ByRole
)

// Selector locates elements independently of the driver. Child, when set,
// scopes the match to descendants of the located element.
type Selector struct {
	Kind  SelectorKind
	Value string
	Name  string
	Child string
}

func CSS(css string) Selector {
	return Selector{Kind: ByCSS, Value: css}
}

func TestID(id string) Selector {
	return Selector{Kind: ByTestID, Value: id}
}

// HasText matches tag elements whose text contains text, like `button:has-text('Logout')`.
func HasText(tag, text string) Selector {
	if tag == "" {
		tag = "*"
	}
	return Selector{Kind: ByText, Value: text, Name: tag}
}

func Role(role, name string) Selector {
	return Selector{Kind: ByRole, Value: role, Name: name}
}

func (s Selector) Descendant(css string) Selector {
	s.Child = css
	return s
}

// CSS returns the css part of the selector, without text filtering or descendant scoping.
func (s Selector) CSS() string {
	switch s.Kind {
	case ByTestID:
		return fmt.Sprintf(`[data-testid="%s"]`, cssEscape(s.Value))
	case ByText:
		return s.Name
	case ByRole:
		if implicit, ok := implicitRoles[s.Value]; ok {
			return fmt.Sprintf(`%s, [role="%s"]`, implicit, cssEscape(s.Value))
		}
		return fmt.Sprintf(`[role="%s"]`, cssEscape(s.Value))
	default:
		return s.Value
	}
}

// TextFilter returns the text an element must contain, or "" when none.
func (s Selector) TextFilter() string {
	switch s.Kind {
	case ByText:
		return s.Value
	case ByRole:
		return s.Name
	}
	return ""
}

// TextRegexp is TextFilter as a JS-compatible regular expression.
func (s Selector) TextRegexp() string {
	if f := s.TextFilter(); f != "" {
		return regexp.QuoteMeta(f)
	}
	return ""
}

func (s Selector) String() string {
	var b strings.Builder
	switch s.Kind {
	case ByTestID:
		fmt.Fprintf(&b, "testid=%s", s.Value)
	case ByText:
		fmt.Fprintf(&b, "%s:has-text(%q)", s.Name, s.Value)
	case ByRole:
		fmt.Fprintf(&b, "role=%s", s.Value)
		if s.Name != "" {
			fmt.Fprintf(&b, "[name=%q]", s.Name)
		}
	default:
		b.WriteString(s.Value)
	}
	if s.Child != "" {
		b.WriteString(" >> ")
		b.WriteString(s.Child)
	}
	return b.String()
}

var implicitRoles = map[string]string{
	"button":  `button, input[type="submit"], input[type="button"]`,
	"link":    `a[href]`,
	"textbox": `input:not([type]), input[type="text"], input[type="email"], input[type="password"], textarea`,
	"heading": `h1, h2, h3, h4, h5, h6`,
}

func cssEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

type ElementState string

const (
	ElementVisible  ElementState = "visible"
	ElementHidden   ElementState = "hidden"
	ElementAttached ElementState = "attached"
	ElementDetached ElementState = "detached"
)
