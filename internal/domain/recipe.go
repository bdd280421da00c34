package domain

// Recipe is the core entity as exposed by the external store. The scanner
// never creates or deletes recipes; it only fills in missing image URLs.
type Recipe struct {
	Title    string
	ImageURL string
}

// Incomplete reports whether the recipe still lacks an image.
func (r Recipe) Incomplete() bool {
	return r.ImageURL == ""
}

// OutcomeKind enumerates the per-recipe processing results.
type OutcomeKind string

const (
	OutcomeFound    OutcomeKind = "found"
	OutcomeNotFound OutcomeKind = "not_found"
	OutcomeErrored  OutcomeKind = "errored"
)

// Outcome is the result of processing a single recipe title.
type Outcome struct {
	Kind   OutcomeKind
	URL    string
	Reason string
}

// Found marks a recipe whose image was resolved and persisted.
func Found(url string) Outcome {
	return Outcome{Kind: OutcomeFound, URL: url}
}

// NotFound marks a recipe for which no usable image could be located.
func NotFound() Outcome {
	return Outcome{Kind: OutcomeNotFound}
}

// Errored marks a recipe whose processing failed for an unexpected reason.
func Errored(reason string) Outcome {
	return Outcome{Kind: OutcomeErrored, Reason: reason}
}
