package resolve

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"RecipeImageScanner/internal/domain"
	"RecipeImageScanner/internal/match"
	"RecipeImageScanner/internal/ports"
	"RecipeImageScanner/internal/validate"
)

// locator is one rule for finding an image element. Attributes are tried in
// order so a lazy-load attribute can back up an empty src.
type locator struct {
	selector string
	attrs    []string
}

// cardLocators run against the selected result card, most specific first.
var cardLocators = []locator{
	{selector: `img[src*="recipe"]`, attrs: []string{"src", "data-src"}},
	{selector: `img[data-src*="recipe"]`, attrs: []string{"data-src", "src"}},
	{selector: "img", attrs: []string{"src", "data-src"}},
}

// heroLocators run against the candidate's detail page when the card itself
// yields nothing usable.
var heroLocators = []locator{
	{selector: `img[class*="primary"]`, attrs: []string{"src", "data-src"}},
	{selector: `[class*="hero"] img`, attrs: []string{"src", "data-src"}},
	{selector: "main img", attrs: []string{"src", "data-src"}},
	{selector: "article img", attrs: []string{"src", "data-src"}},
	{selector: "img", attrs: []string{"src", "data-src"}},
}

// Resolver extracts a usable image URL for a selected candidate through a
// two-tier fallback: card-local locators first, then the detail page behind
// the card's link. Target pages present images via different markup depending
// on template, so no single selector is sufficient.
type Resolver struct {
	renderer ports.Renderer
	checker  *validate.Checker
	logger   *slog.Logger
}

// New wires the renderer used for detail-page navigation and the validation
// gate applied to every extracted URL.
func New(renderer ports.Renderer, checker *validate.Checker, logger *slog.Logger) *Resolver {
	return &Resolver{renderer: renderer, checker: checker, logger: logger}
}

// Resolve returns the first extracted URL that passes validation, claiming it
// in the used set, or "" when both tiers miss. A strategy that finds nothing
// is never an error; the chain just moves on.
func (r *Resolver) Resolve(ctx context.Context, cand match.Candidate, baseURL string, used *domain.ImageSet) string {
	if imageURL := r.firstUsable(ctx, cand.Card, cardLocators, baseURL, used); imageURL != "" {
		return imageURL
	}

	link := detailLink(cand.Card, baseURL)
	if link == "" {
		return ""
	}

	page, err := r.renderer.Load(ctx, link)
	if err != nil {
		r.logger.Debug("detail page load failed", "url", link, "error", err)
		return ""
	}

	return r.firstUsable(ctx, page, heroLocators, page.URL(), used)
}

func (r *Resolver) firstUsable(ctx context.Context, root ports.Element, chain []locator, baseURL string, used *domain.ImageSet) string {
	if root == nil {
		return ""
	}

	for _, loc := range chain {
		for _, el := range root.FindAll(loc.selector) {
			for _, attr := range loc.attrs {
				raw, ok := el.Attr("", attr)
				if !ok {
					continue
				}
				candidate := absoluteURL(baseURL, raw)
				if r.checker.IsUsable(ctx, candidate, used) {
					used.Add(candidate)
					return candidate
				}
			}
		}
	}

	return ""
}

// detailLink pulls the card's outbound link, resolved against the search page.
func detailLink(card ports.Element, baseURL string) string {
	if card == nil {
		return ""
	}
	href, ok := card.Attr("a", "href")
	if !ok {
		return ""
	}
	return absoluteURL(baseURL, href)
}

// absoluteURL resolves ref against base; a broken base or ref degrades to the
// raw reference so validation can still reject it.
func absoluteURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == "" {
		return ref
	}

	baseParsed, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refParsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	return baseParsed.ResolveReference(refParsed).String()
}
