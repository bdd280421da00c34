package browser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RecipeImageScanner/internal/ports"
)

// page wraps a rendered goquery document behind the ports.Page capability.
type page struct {
	element
	pageURL string
}

// NewPage exposes a parsed document as a ports.Page rooted at the document
// itself. Exported so tests can build pages from static HTML.
func NewPage(doc *goquery.Document, pageURL string) ports.Page {
	return &page{element: element{sel: doc.Selection}, pageURL: pageURL}
}

func (p *page) URL() string {
	return p.pageURL
}

// element adapts a goquery selection to ports.Element. All lookups are
// scoped to the selection; an empty selector addresses the selection itself.
type element struct {
	sel *goquery.Selection
}

func (e element) scope(selector string) *goquery.Selection {
	if selector == "" {
		return e.sel
	}
	return e.sel.Find(selector)
}

func (e element) Text(selector string) string {
	return strings.TrimSpace(e.scope(selector).First().Text())
}

func (e element) Attr(selector, name string) (string, bool) {
	val, ok := e.scope(selector).First().Attr(name)
	val = strings.TrimSpace(val)
	return val, ok && val != ""
}

func (e element) FindAll(selector string) []ports.Element {
	var out []ports.Element
	e.scope(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, element{sel: s})
	})
	return out
}
