package embedding

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"foodrec/internal/domain"
	"foodrec/internal/logging"
)

// Gateway fronts an Embedder with batching and a uniform error contract:
// every failure is wrapped as domain.ErrEmbeddingService.
type Gateway struct {
	embedder  Embedder
	batchSize int
	logger    *zap.Logger
}

// NewGateway wraps embedder. A non-positive batchSize sends all texts at once.
func NewGateway(embedder Embedder, batchSize int, logger *zap.Logger) *Gateway {
	return &Gateway{embedder: embedder, batchSize: batchSize, logger: logging.OrNop(logger)}
}

// Name returns the wrapped embedder's name.
func (g *Gateway) Name() string { return g.embedder.Name() }

// Prepare lets corpus-dependent embedders build their vocabulary.
func (g *Gateway) Prepare(ctx context.Context, corpus []string) error {
	if err := g.embedder.Prepare(ctx, corpus); err != nil {
		return fmt.Errorf("%w: prepare %s: %w", domain.ErrEmbeddingService, g.embedder.Name(), err)
	}
	return nil
}

// Embed returns one embedding per text, in order.
func (g *Gateway) Embed(ctx context.Context, texts []string) ([]domain.Embedding, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	size := g.batchSize
	if size <= 0 || size > len(texts) {
		size = len(texts)
	}
	out := make([]domain.Embedding, 0, len(texts))
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		batch := texts[start:end]
		vecs, err := g.embedder.Embed(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrEmbeddingService, g.embedder.Name(), err)
		}
		if len(vecs) != len(batch) {
			return nil, fmt.Errorf("%w: %s returned %d vectors for %d inputs",
				domain.ErrEmbeddingService, g.embedder.Name(), len(vecs), len(batch))
		}
		for _, v := range vecs {
			out = append(out, domain.Embedding(v))
		}
		g.logger.Debug("embedded batch",
			zap.String("embedder", g.embedder.Name()),
			zap.Int("from", start),
			zap.Int("size", len(batch)))
	}
	return out, nil
}

// EmbedOne embeds a single text.
func (g *Gateway) EmbedOne(ctx context.Context, text string) (domain.Embedding, error) {
	vecs, err := g.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}
