package ports

import (
	"context"
	"errors"
	"time"

	"NewsIntel/internal/domain"
)

// Failure taxonomy for external capabilities. Each is scoped to a single
// article or source and resolves to fail-safe handling at the call site,
// never to a run abort.
var (
	ErrSourceUnavailable    = errors.New("news source unavailable")
	ErrExtractionFailed     = errors.New("content extraction failed")
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	ErrClassificationFailed = errors.New("classification failed")
	ErrNoSourcesConfigured  = errors.New("no news sources configured")
)

// ArticleSource aggregates all configured news providers for one day's
// collection window. A provider failure contributes zero articles and a
// warning; only ErrNoSourcesConfigured aborts the run.
type ArticleSource interface {
	CollectDaily(ctx context.Context, day time.Time) ([]domain.Article, error)
}

// ContentExtractor fetches the full article text behind a URL. Failures
// surface as ErrExtractionFailed; callers fall back to the lead paragraph.
type ContentExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Embedder computes fixed-dimension fingerprints. Failures surface as
// ErrEmbeddingUnavailable; callers treat that as "no fingerprint".
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Classifier runs one LLM-backed decision and returns the raw model output.
// Callers parse the response and substitute a fail-safe default on
// ErrClassificationFailed or malformed output.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

// Notifier delivers the curated messages. Out of core guarantee scope; the
// pipeline only promises well-formed message records.
type Notifier interface {
	Send(ctx context.Context, messages []domain.Notification) error
}

// RunRepository archives processed articles, run summaries, and the
// partnership database rows for audit.
type RunRepository interface {
	SaveProcessed(ctx context.Context, article domain.ProcessedArticle) error
	SaveRunSummary(ctx context.Context, stats domain.RunStatistics) error
	SavePartner(ctx context.Context, partner domain.PartnerCompany) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
