package source

import (
	"context"
	"fmt"

	"RecipeImageScanner/internal/domain"
)

// Source is a single strategy for locating a recipe image. An empty URL with
// a nil error means the source had no usable match; the caller moves on to
// the next source in its configured order.
type Source interface {
	Name() string
	FindImage(ctx context.Context, title string, used *domain.ImageSet) (string, error)
}

// Registry keeps a mapping from source names to their implementations.
type Registry struct {
	sources map[string]Source
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]Source{}}
}

// Register adds or replaces a source implementation.
func (r *Registry) Register(src Source) {
	if r.sources == nil {
		r.sources = map[string]Source{}
	}
	r.sources[src.Name()] = src
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Source, error) {
	if src, ok := r.sources[name]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("image source %s is not registered", name)
}
