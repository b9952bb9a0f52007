package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"foodrec/internal/intent"
)

// Classifier runs zero-shot classification, e.g. with facebook/bart-large-mnli.
type Classifier struct {
	client *Client
	model  string
}

// NewClassifier returns a zero-shot classifier for model.
func NewClassifier(client *Client, model string) *Classifier {
	return &Classifier{client: client, model: model}
}

// Classify scores text against labels, best label first.
func (c *Classifier) Classify(ctx context.Context, text string, labels []string) (intent.Classification, error) {
	req := inferenceRequest{
		Inputs:     text,
		Parameters: map[string]any{"candidate_labels": labels},
	}
	var raw json.RawMessage
	if err := c.client.infer(ctx, modelsRoute, c.model, req, &raw); err != nil {
		return intent.Classification{}, fmt.Errorf("zero-shot classification: %w", err)
	}
	return decodeClassification(raw)
}

// decodeClassification accepts both the legacy {labels, scores} object and
// the newer [{label, score}] list.
func decodeClassification(raw json.RawMessage) (intent.Classification, error) {
	var legacy struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal(raw, &legacy); err == nil {
		return intent.Classification{Labels: legacy.Labels, Scores: legacy.Scores}, nil
	}

	var pairs []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return intent.Classification{}, fmt.Errorf("unmarshal classification: %w", err)
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Score > pairs[j].Score })
	out := intent.Classification{
		Labels: make([]string, len(pairs)),
		Scores: make([]float64, len(pairs)),
	}
	for i, p := range pairs {
		out.Labels[i] = p.Label
		out.Scores[i] = p.Score
	}
	return out, nil
}
