package huggingface

import (
	"context"
	"fmt"
)

// Embedder runs sentence-embedding models through the feature-extraction task.
type Embedder struct {
	client    *Client
	model     string
	dimension int
}

// NewEmbedder returns an embedder for model, e.g. sentence-transformers/all-MiniLM-L6-v2.
func NewEmbedder(client *Client, model string) *Embedder {
	return &Embedder{client: client, model: model}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "huggingface:" + e.model }

// Prepare is a no-op; the model is hosted remotely.
func (e *Embedder) Prepare(context.Context, []string) error { return nil }

// Dimension is known after the first successful call.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed returns one pooled sentence vector per text.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	var out [][]float64
	if err := e.client.infer(ctx, featureExtractionRoute, e.model, inferenceRequest{Inputs: texts}, &out); err != nil {
		return nil, fmt.Errorf("feature extraction: %w", err)
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("feature extraction returned %d vectors for %d inputs", len(out), len(texts))
	}
	if len(out) > 0 && e.dimension == 0 {
		e.dimension = len(out[0])
	}
	return out, nil
}
