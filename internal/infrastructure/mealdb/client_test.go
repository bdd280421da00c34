package mealdb

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"RecipeImageScanner/internal/domain"
	"RecipeImageScanner/internal/validate"
)

// newAPIServer serves both the JSON API and the image URLs the API hands out.
func newAPIServer(t *testing.T, searchMeals, filterMeals []string) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search.php":
			writeMeals(w, server.URL, searchMeals)
		case r.URL.Path == "/filter.php":
			writeMeals(w, server.URL, filterMeals)
		case strings.HasSuffix(r.URL.Path, ".jpg"):
			w.Header().Set("Content-Type", "image/jpeg")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func writeMeals(w http.ResponseWriter, baseURL string, names []string) {
	w.Header().Set("Content-Type", "application/json")
	if len(names) == 0 {
		fmt.Fprint(w, `{"meals":null}`)
		return
	}

	var entries []string
	for _, name := range names {
		entries = append(entries, fmt.Sprintf(`{"strMealThumb":"%s/media/%s.jpg"}`, baseURL, name))
	}
	fmt.Fprintf(w, `{"meals":[%s]}`, strings.Join(entries, ","))
}

func newSource(server *httptest.Server) *Source {
	checker := validate.NewChecker(server.Client(), "")
	return New(server.URL, server.Client(), checker, slog.New(slog.DiscardHandler))
}

func TestFindImageByTitleSearch(t *testing.T) {
	t.Parallel()

	server := newAPIServer(t, []string{"cake"}, nil)
	src := newSource(server)

	got, err := src.FindImage(context.Background(), "Chocolate Cake", domain.NewImageSet())
	if err != nil {
		t.Fatalf("FindImage error: %v", err)
	}
	if want := server.URL + "/media/cake.jpg"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFindImageFallsBackToIngredientFilter(t *testing.T) {
	t.Parallel()

	server := newAPIServer(t, nil, []string{"roast"})
	src := newSource(server)

	got, err := src.FindImage(context.Background(), "Slow Cooker Chicken Delight", domain.NewImageSet())
	if err != nil {
		t.Fatalf("FindImage error: %v", err)
	}
	if want := server.URL + "/media/roast.jpg"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFindImageNoFoodKeyword(t *testing.T) {
	t.Parallel()

	server := newAPIServer(t, nil, []string{"roast"})
	src := newSource(server)

	got, err := src.FindImage(context.Background(), "Mystery Casserole", domain.NewImageSet())
	if err != nil {
		t.Fatalf("FindImage error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected a miss without food keywords, got %q", got)
	}
}

func TestFindImageSkipsClaimedThumbs(t *testing.T) {
	t.Parallel()

	server := newAPIServer(t, []string{"first", "second"}, nil)
	src := newSource(server)

	used := domain.NewImageSet(server.URL + "/media/first.jpg")
	got, err := src.FindImage(context.Background(), "Chocolate Cake", used)
	if err != nil {
		t.Fatalf("FindImage error: %v", err)
	}
	if want := server.URL + "/media/second.jpg"; got != want {
		t.Fatalf("got %q, want unclaimed thumb %q", got, want)
	}
	if !used.Contains(got) {
		t.Fatal("accepted thumb must be claimed")
	}
}

func TestFindImageDegradesAPIFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	src := newSource(server)
	got, err := src.FindImage(context.Background(), "Chicken Soup", domain.NewImageSet())
	if err != nil {
		t.Fatalf("API failure must degrade to a miss, got error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected a miss, got %q", got)
	}
}
