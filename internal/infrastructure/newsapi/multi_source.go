package newsapi

import (
	"context"
	"log/slog"
	"time"

	"NewsIntel/internal/domain"
	"NewsIntel/internal/ports"
	"NewsIntel/internal/source"
)

// MultiSource implements ports.ArticleSource across every registered
// provider and every configured keyword. A provider failure is isolated: it
// contributes zero articles and a warning, never an aborted run.
type MultiSource struct {
	registry     *source.Registry
	keywords     []string
	maxPerSource int
	location     *time.Location
	logger       *slog.Logger
}

var _ ports.ArticleSource = (*MultiSource)(nil)

// NewMultiSource wires the provider registry with the configured keywords.
func NewMultiSource(reg *source.Registry, keywords []string, maxPerSource int, loc *time.Location, logger *slog.Logger) *MultiSource {
	return &MultiSource{
		registry:     reg,
		keywords:     keywords,
		maxPerSource: maxPerSource,
		location:     loc,
		logger:       logger,
	}
}

// CollectDaily searches every provider for every keyword and merges the
// results, dropping exact URL repeats across keywords.
func (m *MultiSource) CollectDaily(ctx context.Context, day time.Time) ([]domain.Article, error) {
	if m.registry == nil || len(m.registry.Names()) == 0 {
		return nil, ports.ErrNoSourcesConfigured
	}

	var aggregated []domain.Article
	seen := map[string]struct{}{}

	for _, name := range m.registry.Names() {
		strategy, err := m.registry.Resolve(name)
		if err != nil {
			m.warn("resolve source", "source", name, "error", err)
			continue
		}

		var collected int
		for _, keyword := range m.keywords {
			req := source.Request{
				Day:        day,
				Keyword:    keyword,
				MaxResults: m.maxPerSource,
				Location:   m.location,
			}

			results, err := strategy.Search(ctx, req)
			if err != nil {
				m.warn("source search failed, skipping",
					"source", name, "keyword", keyword, "error", err)
				continue
			}

			for _, article := range results {
				if _, dup := seen[article.URL]; dup {
					continue
				}
				seen[article.URL] = struct{}{}
				aggregated = append(aggregated, article)
				collected++
			}
		}
		m.debug("source done", "source", name, "articles", collected)
	}

	return aggregated, nil
}

func (m *MultiSource) warn(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}

func (m *MultiSource) debug(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}
