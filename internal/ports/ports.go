package ports

import (
	"context"

	"RecipeImageScanner/internal/domain"
)

// Element is an opaque handle into rendered markup. An empty selector
// addresses the element itself. Extraction never fails: strategies that do
// not apply yield empty results, which callers treat as a miss.
type Element interface {
	// Text returns the trimmed visible text of the first match.
	Text(selector string) string
	// Attr returns the trimmed attribute value of the first match; ok is
	// false when the attribute is absent or empty.
	Attr(selector, name string) (string, bool)
	// FindAll returns every descendant matching the selector.
	FindAll(selector string) []Element
}

// Page is one rendered document. Its elements are invalidated when the
// renderer navigates away.
type Page interface {
	Element
	// URL is the address the page was rendered from, used to resolve
	// relative references.
	URL() string
}

// Renderer drives an external browser session. A single session backs all
// navigations, so calls must not overlap.
type Renderer interface {
	Load(ctx context.Context, pageURL string) (Page, error)
}

// RecipeStore is the external recipe collection, keyed by exact title.
type RecipeStore interface {
	// MissingImageTitles lists titles without an image, ordered by recipe id
	// ascending. A non-positive limit means no cap.
	MissingImageTitles(ctx context.Context, limit int) ([]string, error)
	// AssignedImageURLs loads every non-empty image URL currently assigned.
	AssignedImageURLs(ctx context.Context) ([]string, error)
	// SetImageURL updates the image for an exact title and reports the
	// number of rows affected; zero means the title was not found.
	SetImageURL(ctx context.Context, title, imageURL string) (int64, error)
}

// OutcomeSink receives one event per processed recipe.
type OutcomeSink interface {
	Record(title string, outcome domain.Outcome)
}

// Notifier publishes the end-of-run summary to an outbound channel.
type Notifier interface {
	PublishSummary(ctx context.Context, summary string) error
}
