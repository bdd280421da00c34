package report

import (
	"fmt"
	"strings"

	"RecipeImageScanner/internal/domain"
	"RecipeImageScanner/internal/ports"
)

// Success records one persisted image assignment.
type Success struct {
	Title string
	URL   string
}

// Failure records one title whose processing errored.
type Failure struct {
	Title  string
	Reason string
}

// Recorder accumulates per-title outcome events during a run and renders the
// end-of-run summary. Lists are append-only and keep input order.
type Recorder struct {
	successes []Success
	notFound  []string
	failures  []Failure
}

var _ ports.OutcomeSink = (*Recorder)(nil)

// NewRecorder builds an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record routes one outcome into the matching statistics list.
func (r *Recorder) Record(title string, outcome domain.Outcome) {
	switch outcome.Kind {
	case domain.OutcomeFound:
		r.successes = append(r.successes, Success{Title: title, URL: outcome.URL})
	case domain.OutcomeNotFound:
		r.notFound = append(r.notFound, title)
	default:
		r.failures = append(r.failures, Failure{Title: title, Reason: outcome.Reason})
	}
}

// Successes returns the persisted assignments in processing order.
func (r *Recorder) Successes() []Success {
	return r.successes
}

// NotFound returns the titles that yielded no usable image.
func (r *Recorder) NotFound() []string {
	return r.notFound
}

// Failures returns the errored titles with their reasons.
func (r *Recorder) Failures() []Failure {
	return r.failures
}

// Total is the number of recorded events.
func (r *Recorder) Total() int {
	return len(r.successes) + len(r.notFound) + len(r.failures)
}

// Summary renders the aggregate counts and the full success list.
func (r *Recorder) Summary() string {
	var b strings.Builder

	b.WriteString("PROCESSING SUMMARY\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Successfully updated: %d recipes\n", len(r.successes))
	fmt.Fprintf(&b, "Images not found: %d recipes\n", len(r.notFound))
	fmt.Fprintf(&b, "Errors occurred: %d recipes\n", len(r.failures))

	if len(r.successes) > 0 {
		b.WriteString("\nSuccessfully found images:\n")
		for _, s := range r.successes {
			fmt.Fprintf(&b, "  - %s\n    %s\n", s.Title, s.URL)
		}
	}

	if len(r.failures) > 0 {
		b.WriteString("\nErrors:\n")
		for _, f := range r.failures {
			fmt.Fprintf(&b, "  - %s: %s\n", f.Title, f.Reason)
		}
	}

	return b.String()
}
