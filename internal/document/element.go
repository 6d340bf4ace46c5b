package document

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Element is a single read-only node of a Document.
type Element struct {
	s *goquery.Selection
}

func elements(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, Element{s: s})
	})
	return out
}

// Tag returns the lower-case tag name.
func (e Element) Tag() string {
	if e.s == nil {
		return ""
	}
	return goquery.NodeName(e.s)
}

// Attr returns the named attribute.
func (e Element) Attr(name string) (string, bool) {
	if e.s == nil {
		return "", false
	}
	return e.s.Attr(name)
}

// AttrOr returns the trimmed attribute value or "" when absent.
func (e Element) AttrOr(name string) string {
	v, _ := e.Attr(name)
	return strings.TrimSpace(v)
}

// HasAttr reports whether the attribute is present, even if empty.
func (e Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// Text returns the collapsed text content of the element and its
// descendants.
func (e Element) Text() string {
	if e.s == nil {
		return ""
	}
	return collapse(e.s.Text())
}

// ParentTag returns the tag name of the direct parent element.
func (e Element) ParentTag() string {
	if e.s == nil {
		return ""
	}
	return goquery.NodeName(e.s.Parent())
}

// HasAncestor reports whether any ancestor matches sel.
func (e Element) HasAncestor(sel string) bool {
	if e.s == nil {
		return false
	}
	return e.s.ParentsFiltered(sel).Length() > 0
}

// Find returns descendants matching sel.
func (e Element) Find(sel string) []Element {
	if e.s == nil {
		return nil
	}
	return elements(e.s.Find(sel))
}

// Children returns the direct child elements.
func (e Element) Children() []Element {
	if e.s == nil {
		return nil
	}
	return elements(e.s.Children())
}
