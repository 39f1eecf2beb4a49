package source

import (
	"context"
	"fmt"
	"sort"
	"time"

	"NewsIntel/internal/domain"
)

// Request carries all parameters required to execute one keyword search
// against a provider.
type Request struct {
	Day        time.Time
	Keyword    string
	MaxResults int
	Location   *time.Location
}

// Strategy is a single provider implementation (Naver, NewsAPI, etc.).
type Strategy interface {
	Name() string
	Search(ctx context.Context, req Request) ([]domain.Article, error)
}

// Registry keeps a mapping from provider names to their implementations.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a provider implementation.
func (r *Registry) Register(strategy Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[strategy.Name()] = strategy
}

// Resolve returns a provider by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if strategy, ok := r.strategies[name]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("news source %s is not registered", name)
}

// Names lists the registered providers in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
