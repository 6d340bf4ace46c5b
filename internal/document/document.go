// Package document wraps fetched HTML in a read-only, query-able DOM.
// Every query tolerates malformed or partial markup: absent elements yield
// empty results, never errors.
package document

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	bodySel      = cascadia.MustCompile("body")
	titleSel     = cascadia.MustCompile("title")
	metaSel      = cascadia.MustCompile("meta")
	nonTextSel   = cascadia.MustCompile("script, style, noscript, template")
	htmlRootSel  = cascadia.MustCompile("html")
	linkSel      = cascadia.MustCompile("link")
	anchorSel    = cascadia.MustCompile("a[href]")
	imageSel     = cascadia.MustCompile("img")
	headingSel   = cascadia.MustCompile("h1, h2, h3, h4, h5, h6")
	scriptSel    = cascadia.MustCompile("script")
	charsetMeta  = cascadia.MustCompile("meta[charset]")
	httpEquivSel = cascadia.MustCompile("meta[http-equiv]")
)

// Document is a parsed HTML page together with its raw source.
type Document struct {
	raw string
	doc *goquery.Document
}

// Parse builds a Document from raw HTML. It never fails: unreadable input
// degrades to an empty document.
func Parse(raw string) *Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return &Document{raw: raw, doc: doc}
}

// Raw returns the unparsed source.
func (d *Document) Raw() string {
	return d.raw
}

// Count returns the number of elements matching sel.
func (d *Document) Count(sel string) int {
	return d.doc.Find(sel).Length()
}

// Exists reports whether at least one element matches sel.
func (d *Document) Exists(sel string) bool {
	return d.Count(sel) > 0
}

// Attr returns the named attribute of the first element matching sel.
func (d *Document) Attr(sel, name string) (string, bool) {
	return d.doc.Find(sel).First().Attr(name)
}

// Attrs returns the named attribute of every matching element that has it.
func (d *Document) Attrs(sel, name string) []string {
	var out []string
	d.doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr(name); ok {
			out = append(out, v)
		}
	})
	return out
}

// Text returns the collapsed text content of the first element matching sel.
func (d *Document) Text(sel string) string {
	return collapse(d.doc.Find(sel).First().Text())
}

// All returns every element matching sel in document order.
func (d *Document) All(sel string) []Element {
	return elements(d.doc.Find(sel))
}

// Title returns the trimmed text of the first <title>.
func (d *Document) Title() string {
	return collapse(d.doc.FindMatcher(titleSel).First().Text())
}

// Meta returns the content of the first <meta> whose name or property
// equals key, compared case-insensitively.
func (d *Document) Meta(key string) (string, bool) {
	var (
		content string
		found   bool
	)
	d.doc.FindMatcher(metaSel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		prop, _ := s.Attr("property")
		if strings.EqualFold(name, key) || strings.EqualFold(prop, key) {
			content, _ = s.Attr("content")
			content = strings.TrimSpace(content)
			found = true
			return false
		}
		return true
	})
	return content, found
}

// LinkRel returns the <link> elements whose rel attribute contains the
// given token, compared case-insensitively.
func (d *Document) LinkRel(token string) []Element {
	var out []Element
	for _, el := range elements(d.doc.FindMatcher(linkSel)) {
		rel, _ := el.Attr("rel")
		for _, t := range strings.Fields(strings.ToLower(rel)) {
			if t == token || strings.HasSuffix(t, "-"+token) {
				out = append(out, el)
				break
			}
		}
	}
	return out
}

// Lang returns the lang attribute of the root <html> element.
func (d *Document) Lang() (string, bool) {
	lang, ok := d.doc.FindMatcher(htmlRootSel).First().Attr("lang")
	lang = strings.TrimSpace(lang)
	return lang, ok && lang != ""
}

// Charset reports the declared document charset, from <meta charset> or an
// http-equiv Content-Type declaration.
func (d *Document) Charset() string {
	if cs, ok := d.doc.FindMatcher(charsetMeta).First().Attr("charset"); ok && strings.TrimSpace(cs) != "" {
		return strings.TrimSpace(cs)
	}
	var cs string
	d.doc.FindMatcher(httpEquivSel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		equiv, _ := s.Attr("http-equiv")
		if !strings.EqualFold(equiv, "content-type") {
			return true
		}
		content, _ := s.Attr("content")
		cs = CharsetFromContentType(content)
		return cs == ""
	})
	return cs
}

// Body returns the <body> element, if any.
func (d *Document) Body() (Element, bool) {
	s := d.doc.FindMatcher(bodySel).First()
	return Element{s: s}, s.Length() > 0
}

// Anchors returns every <a> with an href.
func (d *Document) Anchors() []Element {
	return elements(d.doc.FindMatcher(anchorSel))
}

// Images returns every <img>.
func (d *Document) Images() []Element {
	return elements(d.doc.FindMatcher(imageSel))
}

// Scripts returns every <script>.
func (d *Document) Scripts() []Element {
	return elements(d.doc.FindMatcher(scriptSel))
}

// HeadingLevels returns the levels (1-6) of all headings in document order.
func (d *Document) HeadingLevels() []int {
	var levels []int
	d.doc.FindMatcher(headingSel).Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		levels = append(levels, int(name[1]-'0'))
	})
	return levels
}

// HasDoctype reports whether the document declares a doctype.
func (d *Document) HasDoctype() bool {
	for _, root := range d.doc.Nodes {
		for n := root.FirstChild; n != nil; n = n.NextSibling {
			if n.Type == html.DoctypeNode {
				return true
			}
		}
	}
	return false
}

// WordCount counts whitespace-separated words of visible body text.
func (d *Document) WordCount() int {
	body := d.doc.FindMatcher(bodySel).First()
	if body.Length() == 0 {
		return 0
	}
	clone := body.Clone()
	clone.FindMatcher(nonTextSel).Remove()
	return len(strings.Fields(clone.Text()))
}

// CharsetFromContentType extracts the charset parameter of a Content-Type
// value such as "text/html; charset=utf-8".
func CharsetFromContentType(v string) string {
	for _, part := range strings.Split(v, ";") {
		key, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && strings.EqualFold(strings.TrimSpace(key), "charset") {
			return strings.Trim(strings.TrimSpace(val), `"'`)
		}
	}
	return ""
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
