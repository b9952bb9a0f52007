// Package recommend resolves a query embedding into ranked catalog items.
package recommend

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"foodrec/internal/domain"
	"foodrec/internal/logging"
	"foodrec/internal/vectorstore"
)

// DefaultTopN is the number of recommendations returned when unset.
const DefaultTopN = 5

// ItemLookup finds catalog items by exact id.
type ItemLookup interface {
	Lookup(id string) (domain.CatalogItem, bool)
}

// Options tune a single search.
type Options struct {
	TopN int
	// Filter, when non-nil and non-empty, restricts matches to items whose
	// metadata carries the detected diet or cuisine.
	Filter *domain.FilterCriteria
}

// Resolver runs similarity searches and joins matches back to the catalog.
type Resolver struct {
	items  ItemLookup
	logger *zap.Logger
}

// NewResolver returns a Resolver joining against items.
func NewResolver(items ItemLookup, logger *zap.Logger) *Resolver {
	return &Resolver{items: items, logger: logging.OrNop(logger)}
}

// Search returns up to TopN catalog items nearest to embedding, closest
// first. Store failures are logged and yield no results; ids missing from
// the catalog are dropped. A zero embedding is equidistant from every
// normalized item, so it yields no results without querying the store.
func (r *Resolver) Search(ctx context.Context, c vectorstore.Collection, embedding domain.Embedding, opts Options) []domain.RankedResult {
	if embedding.IsZero() {
		r.logger.Info("query has no recognizable terms; skipping search", zap.String("collection", c.Name()))
		return []domain.RankedResult{}
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	q := vectorstore.Query{
		Embeddings: [][]float64{embedding},
		N:          topN,
	}
	if opts.Filter != nil && !opts.Filter.IsEmpty() {
		q.Where = opts.Filter.Metadata()
	}

	res, err := c.Query(ctx, q)
	if err != nil {
		r.logger.Error("similarity search failed",
			zap.String("collection", c.Name()), zap.Error(err))
		return []domain.RankedResult{}
	}
	if len(res.IDs) == 0 || len(res.IDs[0]) == 0 {
		return []domain.RankedResult{}
	}

	ids := res.IDs[0]
	var distances []float64
	if len(res.Distances) > 0 {
		distances = res.Distances[0]
	}
	results := make([]domain.RankedResult, 0, len(ids))
	for i, id := range ids {
		if i >= len(distances) {
			r.logger.Warn("match without distance dropped", zap.String("id", id))
			continue
		}
		item, ok := r.items.Lookup(id)
		if !ok {
			r.logger.Debug("stale index id dropped", zap.String("id", id))
			continue
		}
		results = append(results, domain.RankedResult{
			ID:          id,
			Score:       distances[i],
			Name:        item.Name,
			Description: item.Description,
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score < results[j].Score })
	if len(results) > topN {
		results = results[:topN]
	}
	return results
}
