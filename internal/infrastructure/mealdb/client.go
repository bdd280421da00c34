package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"RecipeImageScanner/internal/domain"
	"RecipeImageScanner/internal/match"
	"RecipeImageScanner/internal/source"
	"RecipeImageScanner/internal/validate"
)

const (
	// DefaultBaseURL is TheMealDB's free, keyless API root.
	DefaultBaseURL = "https://www.themealdb.com/api/v1/1"

	maxFilterResults = 5
)

// foodKeywords are title words worth an ingredient-filtered retry when the
// full-title search misses.
var foodKeywords = map[string]struct{}{
	"chicken": {}, "beef": {}, "pork": {}, "lamb": {}, "fish": {},
	"salmon": {}, "chocolate": {}, "vanilla": {}, "strawberry": {},
	"apple": {}, "banana": {}, "rice": {}, "pasta": {}, "bread": {},
	"cake": {}, "cookies": {}, "pie": {}, "soup": {}, "salad": {},
	"garlic": {}, "pepper": {}, "shrimp": {}, "cheese": {}, "burger": {},
	"biscuit": {}, "pizza": {},
}

// Source queries TheMealDB JSON API as a fallback image source: first a
// full-title search, then an ingredient filter on recognized food words.
type Source struct {
	baseURL string
	client  *http.Client
	checker *validate.Checker
	logger  *slog.Logger
}

var _ source.Source = (*Source)(nil)

// New builds the API source; an empty baseURL uses the public endpoint and a
// nil client gets a short default timeout.
func New(baseURL string, client *http.Client, checker *validate.Checker, logger *slog.Logger) *Source {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Source{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		checker: checker,
		logger:  logger,
	}
}

// Name identifies the source inside the registry.
func (s *Source) Name() string {
	return "mealdb"
}

// FindImage returns the first meal thumbnail that passes validation, or ""
// when the API has nothing usable. API failures degrade to a miss.
func (s *Source) FindImage(ctx context.Context, title string, used *domain.ImageSet) (string, error) {
	clean := match.Normalize(title)

	if imageURL := s.searchByTitle(ctx, clean, used); imageURL != "" {
		return imageURL, nil
	}

	for _, word := range strings.Fields(strings.ToLower(clean)) {
		if _, ok := foodKeywords[word]; !ok {
			continue
		}
		if imageURL := s.filterByIngredient(ctx, word, used); imageURL != "" {
			return imageURL, nil
		}
	}

	return "", nil
}

func (s *Source) searchByTitle(ctx context.Context, query string, used *domain.ImageSet) string {
	endpoint := fmt.Sprintf("%s/search.php?s=%s", s.baseURL, url.QueryEscape(query))
	return s.firstUsableThumb(ctx, endpoint, 0, used)
}

func (s *Source) filterByIngredient(ctx context.Context, ingredient string, used *domain.ImageSet) string {
	endpoint := fmt.Sprintf("%s/filter.php?i=%s", s.baseURL, url.QueryEscape(ingredient))
	return s.firstUsableThumb(ctx, endpoint, maxFilterResults, used)
}

// firstUsableThumb fetches a meal list and returns the first thumbnail that
// passes the validation gate, claiming it in the used set.
func (s *Source) firstUsableThumb(ctx context.Context, endpoint string, limit int, used *domain.ImageSet) string {
	meals, err := s.fetchMeals(ctx, endpoint)
	if err != nil {
		s.logger.Debug("mealdb request failed", "url", endpoint, "error", err)
		return ""
	}

	if limit > 0 && len(meals) > limit {
		meals = meals[:limit]
	}

	for _, meal := range meals {
		if meal.Thumb == "" {
			continue
		}
		if s.checker.IsUsable(ctx, meal.Thumb, used) {
			used.Add(meal.Thumb)
			return meal.Thumb
		}
	}

	return ""
}

type meal struct {
	Thumb string `json:"strMealThumb"`
}

func (s *Source) fetchMeals(ctx context.Context, endpoint string) ([]meal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mealdb returned %s", resp.Status)
	}

	var payload struct {
		Meals []meal `json:"meals"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return payload.Meals, nil
}
