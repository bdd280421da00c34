package websearch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"RecipeImageScanner/internal/domain"
	"RecipeImageScanner/internal/infrastructure/browser"
	"RecipeImageScanner/internal/match"
	"RecipeImageScanner/internal/ports"
	"RecipeImageScanner/internal/resolve"
	"RecipeImageScanner/internal/validate"
)

// fakeRenderer serves canned HTML keyed by URL.
type fakeRenderer struct {
	pages map[string]string
	loads []string
}

func (f *fakeRenderer) Load(_ context.Context, pageURL string) (ports.Page, error) {
	f.loads = append(f.loads, pageURL)
	html, ok := f.pages[pageURL]
	if !ok {
		return nil, fmt.Errorf("no page for %s", pageURL)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return browser.NewPage(doc, pageURL), nil
}

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".jpg") {
			w.Header().Set("Content-Type", "image/jpeg")
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return server
}

func newWebSource(server *httptest.Server, renderer ports.Renderer, searchURL string) *Source {
	logger := slog.New(slog.DiscardHandler)
	checker := validate.NewChecker(server.Client(), "")
	selector := match.NewSelector(logger)
	resolver := resolve.New(renderer, checker, logger)
	return New(renderer, selector, resolver, searchURL, "", logger)
}

func TestFindImageEndToEnd(t *testing.T) {
	t.Parallel()

	server := newImageServer(t)
	imageURL := server.URL + "/recipe/cake.jpg"
	searchURL := "https://site.example.org/search?q=Chocolate+Cake"

	renderer := &fakeRenderer{pages: map[string]string{
		searchURL: fmt.Sprintf(`
		<div class="recipe-card"><h3>Banana Bread</h3><img src="%s/recipe/bread.jpg"/></div>
		<div class="recipe-card"><h3>Chocolate Cake</h3><img src="%s"/></div>`,
			server.URL, imageURL),
	}}

	src := newWebSource(server, renderer, "https://site.example.org/search?q=%s")
	used := domain.NewImageSet()

	got, err := src.FindImage(context.Background(), "Chocolate Cake", used)
	if err != nil {
		t.Fatalf("FindImage error: %v", err)
	}
	if got != imageURL {
		t.Fatalf("got %q, want %q", got, imageURL)
	}
	if !used.Contains(imageURL) {
		t.Fatal("accepted URL must be claimed")
	}
}

func TestFindImageEncodesNormalizedQuery(t *testing.T) {
	t.Parallel()

	server := newImageServer(t)
	renderer := &fakeRenderer{pages: map[string]string{}}
	src := newWebSource(server, renderer, "https://site.example.org/search?q=%s")

	// The page is missing, so the source errors, but the attempted URL shows
	// the normalized, percent-encoded query.
	_, err := src.FindImage(context.Background(), "Mac &amp; Cheese!", domain.NewImageSet())
	if err == nil {
		t.Fatal("expected a navigation error")
	}
	if len(renderer.loads) != 1 {
		t.Fatalf("expected one navigation, got %v", renderer.loads)
	}
	if want := "https://site.example.org/search?q=Mac+Cheese"; renderer.loads[0] != want {
		t.Fatalf("search URL = %q, want %q", renderer.loads[0], want)
	}
}

func TestFindImageNoCards(t *testing.T) {
	t.Parallel()

	server := newImageServer(t)
	searchURL := "https://site.example.org/search?q=Chocolate+Cake"
	renderer := &fakeRenderer{pages: map[string]string{
		searchURL: `<html><body><p>No results.</p></body></html>`,
	}}

	src := newWebSource(server, renderer, "https://site.example.org/search?q=%s")

	got, err := src.FindImage(context.Background(), "Chocolate Cake", domain.NewImageSet())
	if err != nil {
		t.Fatalf("FindImage error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected a miss without cards, got %q", got)
	}
}

func TestFindImageNoCandidateAboveThreshold(t *testing.T) {
	t.Parallel()

	server := newImageServer(t)
	searchURL := "https://site.example.org/search?q=zzz+qqq"
	renderer := &fakeRenderer{pages: map[string]string{
		searchURL: fmt.Sprintf(
			`<div class="card"><h3>Apple Pie</h3><img src="%s/recipe/pie.jpg"/></div>`, server.URL),
	}}

	src := newWebSource(server, renderer, "https://site.example.org/search?q=%s")

	got, err := src.FindImage(context.Background(), "zzz qqq", domain.NewImageSet())
	if err != nil {
		t.Fatalf("FindImage error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected no image for an unrelated title, got %q", got)
	}
}

func TestFindImageDetailPageFallback(t *testing.T) {
	t.Parallel()

	server := newImageServer(t)
	heroURL := server.URL + "/hero.jpg"
	searchURL := "https://site.example.org/search?q=Chocolate+Cake"
	detailURL := "https://site.example.org/recipes/chocolate-cake"

	renderer := &fakeRenderer{pages: map[string]string{
		searchURL: `<div class="card"><h3>Chocolate Cake</h3><a href="/recipes/chocolate-cake">open</a></div>`,
		detailURL: fmt.Sprintf(`<main><img src="%s"/></main>`, heroURL),
	}}

	src := newWebSource(server, renderer, "https://site.example.org/search?q=%s")

	got, err := src.FindImage(context.Background(), "Chocolate Cake", domain.NewImageSet())
	if err != nil {
		t.Fatalf("FindImage error: %v", err)
	}
	if got != heroURL {
		t.Fatalf("got %q, want detail-page hero %q", got, heroURL)
	}
	if len(renderer.loads) != 2 || renderer.loads[1] != detailURL {
		t.Fatalf("expected search then detail navigation, got %v", renderer.loads)
	}
}
