package similarity

import (
	"context"
	"fmt"
	"math"

	"NewsIntel/internal/ports"
)

// Cosine returns the cosine similarity of two vectors clamped to [0,1].
// Mismatched lengths and zero vectors score 0. Pure function of its inputs.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Engine computes fingerprints through the embedding provider. Both dedup
// stages share one engine.
type Engine struct {
	embedder ports.Embedder
}

// NewEngine wraps an embedder.
func NewEngine(embedder ports.Embedder) *Engine {
	return &Engine{embedder: embedder}
}

// Fingerprint embeds a single text span. A provider error surfaces as
// ErrEmbeddingUnavailable; the caller treats it as "no fingerprint".
func (e *Engine) Fingerprint(ctx context.Context, text string) ([]float64, error) {
	if e == nil || e.embedder == nil {
		return nil, ports.ErrEmbeddingUnavailable
	}

	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrEmbeddingUnavailable, err)
	}
	return vec, nil
}

// FingerprintBatch embeds many text spans in one provider call. The result
// is positional: result[i] belongs to texts[i].
func (e *Engine) FingerprintBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if e == nil || e.embedder == nil {
		return nil, ports.ErrEmbeddingUnavailable
	}

	vecs, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrEmbeddingUnavailable, err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts",
			ports.ErrEmbeddingUnavailable, len(vecs), len(texts))
	}
	return vecs, nil
}
