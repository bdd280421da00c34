package websearch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"RecipeImageScanner/internal/domain"
	"RecipeImageScanner/internal/match"
	"RecipeImageScanner/internal/ports"
	"RecipeImageScanner/internal/resolve"
	"RecipeImageScanner/internal/source"
)

const defaultCardSelector = `[class*="card"]`

// Source finds recipe images by rendering the recipe site's search page,
// picking the best-matching result card, and running the image-locator
// fallback chain against it.
type Source struct {
	renderer     ports.Renderer
	selector     *match.Selector
	resolver     *resolve.Resolver
	searchURL    string
	cardSelector string
	logger       *slog.Logger
}

var _ source.Source = (*Source)(nil)

// New wires the browser-search source. searchURL is a template with a single
// %s placeholder for the percent-encoded query.
func New(renderer ports.Renderer, selector *match.Selector, resolver *resolve.Resolver, searchURL, cardSelector string, logger *slog.Logger) *Source {
	if cardSelector == "" {
		cardSelector = defaultCardSelector
	}
	return &Source{
		renderer:     renderer,
		selector:     selector,
		resolver:     resolver,
		searchURL:    searchURL,
		cardSelector: cardSelector,
		logger:       logger,
	}
}

// Name identifies the source inside the registry.
func (s *Source) Name() string {
	return "web"
}

// FindImage renders the search results for the normalized title and walks the
// select-then-resolve pipeline. An empty return means no usable image.
func (s *Source) FindImage(ctx context.Context, title string, used *domain.ImageSet) (string, error) {
	query := match.Normalize(title)
	searchURL := fmt.Sprintf(s.searchURL, url.QueryEscape(query))

	page, err := s.renderer.Load(ctx, searchURL)
	if err != nil {
		return "", fmt.Errorf("load search page: %w", err)
	}

	cards := page.FindAll(s.cardSelector)
	if len(cards) == 0 {
		s.logger.Debug("no result cards", "title", title, "url", searchURL)
		return "", nil
	}

	cand, ok := s.selector.Select(title, cards)
	if !ok {
		s.logger.Debug("no card above threshold", "title", title, "cards", len(cards))
		return "", nil
	}
	s.logger.Debug("candidate selected", "title", title, "score", cand.Score)

	return s.resolver.Resolve(ctx, cand, page.URL(), used), nil
}
