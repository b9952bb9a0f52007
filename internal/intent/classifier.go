// Package intent infers dietary and cuisine intent from a free-text query
// through a zero-shot classifier.
package intent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"foodrec/internal/domain"
	"foodrec/internal/logging"
)

// ConfidenceThreshold is the score a top label must strictly exceed to count.
const ConfidenceThreshold = 0.8

// DietLabels are checked first.
var DietLabels = []string{
	"vegan", "non-vegan", "vegetarian", "non-vegetarian",
	"pescatarian", "omnivore", "paleo", "ketogenic",
}

// CuisineLabels are checked only when no diet label is confident.
var CuisineLabels = []string{"chinese", "indian", "japanese"}

// Classification pairs Labels[i] with Scores[i], best first.
type Classification struct {
	Labels []string
	Scores []float64
}

// Top returns the best label and its score. ok is false when the result
// carries no usable pair.
func (c Classification) Top() (label string, score float64, ok bool) {
	if len(c.Labels) == 0 || len(c.Scores) == 0 {
		return "", 0, false
	}
	return c.Labels[0], c.Scores[0], true
}

// Classifier scores text against an arbitrary candidate label set.
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) (Classification, error)
}

// NoneClassifier never reports a label. It disables intent detection.
type NoneClassifier struct{}

// Classify returns an empty classification.
func (NoneClassifier) Classify(context.Context, string, []string) (Classification, error) {
	return Classification{}, nil
}

// Extractor runs the two-stage diet-then-cuisine intent gate.
type Extractor struct {
	classifier    Classifier
	dietLabels    []string
	cuisineLabels []string
	logger        *zap.Logger
}

// NewExtractor builds an Extractor with the default label sets.
func NewExtractor(classifier Classifier, logger *zap.Logger) *Extractor {
	return &Extractor{
		classifier:    classifier,
		dietLabels:    DietLabels,
		cuisineLabels: CuisineLabels,
		logger:        logging.OrNop(logger),
	}
}

// ExtractFilterCriteria classifies query against the diet labels and, only
// when no diet label clears the threshold, against the cuisine labels. At
// most one family is set. Errors wrap domain.ErrClassificationService.
func (e *Extractor) ExtractFilterCriteria(ctx context.Context, query string) (domain.FilterCriteria, error) {
	var criteria domain.FilterCriteria

	diet, err := e.classifier.Classify(ctx, query, e.dietLabels)
	if err != nil {
		return criteria, fmt.Errorf("%w: diet: %w", domain.ErrClassificationService, err)
	}
	if label, score, ok := diet.Top(); ok && score > ConfidenceThreshold {
		criteria.Diet = label
		e.logger.Debug("extracted filter criteria",
			zap.String("diet", label), zap.Float64("score", score))
		return criteria, nil
	}

	cuisine, err := e.classifier.Classify(ctx, query, e.cuisineLabels)
	if err != nil {
		return criteria, fmt.Errorf("%w: cuisine: %w", domain.ErrClassificationService, err)
	}
	if label, score, ok := cuisine.Top(); ok && score > ConfidenceThreshold {
		criteria.Cuisine = label
	}
	e.logger.Debug("extracted filter criteria",
		zap.String("diet", criteria.Diet), zap.String("cuisine", criteria.Cuisine))
	return criteria, nil
}
