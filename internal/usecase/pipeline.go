package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"RecipeImageScanner/internal/domain"
	"RecipeImageScanner/internal/ports"
	"RecipeImageScanner/internal/source"
)

// PipelineDeps wires the store, the ordered image sources, and the shared
// dedup set into the per-recipe pipeline.
type PipelineDeps struct {
	Store   ports.RecipeStore
	Sources []source.Source
	Used    *domain.ImageSet
	Logger  *slog.Logger
}

// Pipeline processes a single recipe title: locate an image through the
// source chain, then persist it against the exact original title.
type Pipeline struct {
	store   ports.RecipeStore
	sources []source.Source
	used    *domain.ImageSet
	logger  *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		store:   deps.Store,
		sources: deps.Sources,
		used:    deps.Used,
		logger:  deps.Logger,
	}
}

// Process runs one recipe end to end and folds every failure into the
// returned outcome. Isolation between recipes is a hard requirement: nothing
// here may abort the batch, so even panics are caught at this boundary.
func (p *Pipeline) Process(ctx context.Context, title string) (out domain.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("pipeline panic", "title", title, "panic", rec)
			out = domain.Errored(fmt.Sprintf("panic: %v", rec))
		}
	}()

	imageURL := ""
	for _, src := range p.sources {
		found, err := src.FindImage(ctx, title, p.used)
		if err != nil {
			p.logger.Warn("image source failed", "source", src.Name(), "title", title, "error", err)
			continue
		}
		if found != "" {
			imageURL = found
			break
		}
	}

	if imageURL == "" {
		return domain.NotFound()
	}

	// The accepted URL is already claimed in the dedup set; a write that does
	// not commit releases the claim so the URL stays reusable.
	affected, err := p.store.SetImageURL(ctx, title, imageURL)
	if err != nil {
		p.used.Remove(imageURL)
		return domain.Errored(fmt.Sprintf("store update: %v", err))
	}
	if affected == 0 {
		p.used.Remove(imageURL)
		return domain.Errored("no matching stored recipe")
	}

	return domain.Found(imageURL)
}
