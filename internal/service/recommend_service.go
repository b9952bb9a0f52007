package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"foodrec/internal/catalog"
	"foodrec/internal/domain"
	"foodrec/internal/embedding"
	"foodrec/internal/index"
	"foodrec/internal/ingredients"
	"foodrec/internal/intent"
	"foodrec/internal/logging"
	"foodrec/internal/recommend"
	"foodrec/internal/vectorstore"
)

// TextExtractor reads the text of a recipe document.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// Options configure a RecommendService.
type Options struct {
	Collection       string
	RecipeCollection string
	TopN             int
	ApplyFilters     bool
}

// Deps are the collaborators a RecommendService composes.
type Deps struct {
	Catalog   *catalog.Catalog
	Embedder  *embedding.Gateway
	Intent    *intent.Extractor
	Documents TextExtractor
	Index     *index.Manager
	Resolver  *recommend.Resolver
	Logger    *zap.Logger
}

// QueryRecommendation is the outcome of the free-text path.
type QueryRecommendation struct {
	Query    string                `json:"query"`
	Criteria domain.FilterCriteria `json:"criteria"`
	Results  []domain.RankedResult `json:"results"`
}

// DocumentRecommendation is the outcome of the document path. Results is
// empty and no search runs when no ingredients were found.
type DocumentRecommendation struct {
	Path        string                `json:"path"`
	Ingredients []string              `json:"ingredients"`
	Results     []domain.RankedResult `json:"results"`
}

// NoIngredients reports whether the document had no ingredient section.
func (d DocumentRecommendation) NoIngredients() bool { return len(d.Ingredients) == 0 }

// RecommendServiceImpl sequences ingestion and resolution for one run.
// It is not safe for concurrent use.
type RecommendServiceImpl struct {
	deps   Deps
	opts   Options
	logger *zap.Logger

	prepared  bool
	foodIndex vectorstore.Collection
	recipeIdx vectorstore.Collection
}

// NewRecommendService builds the orchestrator.
func NewRecommendService(deps Deps, opts Options) *RecommendServiceImpl {
	if opts.TopN <= 0 {
		opts.TopN = recommend.DefaultTopN
	}
	return &RecommendServiceImpl{deps: deps, opts: opts, logger: logging.OrNop(deps.Logger)}
}

// prepare primes corpus-dependent embedders once. The full-catalog
// documents contain every ingredient, so one vocabulary serves both paths.
func (s *RecommendServiceImpl) prepare(ctx context.Context) error {
	if s.prepared {
		return nil
	}
	if err := s.deps.Embedder.Prepare(ctx, s.deps.Catalog.Documents(catalog.RenderDocument)); err != nil {
		return err
	}
	s.prepared = true
	return nil
}

// IngestCatalog embeds every catalog document and upserts it into the food collection.
func (s *RecommendServiceImpl) IngestCatalog(ctx context.Context) error {
	c, err := s.ingest(ctx, s.opts.Collection, catalog.RenderDocument)
	if err != nil {
		return err
	}
	s.foodIndex = c
	return nil
}

// IngestRecipes embeds every item's ingredient text into the recipe collection.
func (s *RecommendServiceImpl) IngestRecipes(ctx context.Context) error {
	c, err := s.ingest(ctx, s.opts.RecipeCollection, catalog.RenderIngredientDocument)
	if err != nil {
		return err
	}
	s.recipeIdx = c
	return nil
}

func (s *RecommendServiceImpl) ingest(ctx context.Context, collection string, render func(domain.CatalogItem) string) (vectorstore.Collection, error) {
	if err := s.prepare(ctx); err != nil {
		return nil, err
	}
	docs := s.deps.Catalog.Documents(render)
	vecs, err := s.deps.Embedder.Embed(ctx, docs)
	if err != nil {
		return nil, err
	}
	c, err := s.deps.Index.EnsureCollection(ctx, collection)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Index.Upsert(ctx, c, s.deps.Catalog.IDs(), docs, vecs, s.deps.Catalog.Metadatas()); err != nil {
		return nil, err
	}
	return c, nil
}

// RecommendForQuery ranks catalog items against a free-text query, ingesting
// the catalog first if this run has not done so yet.
func (s *RecommendServiceImpl) RecommendForQuery(ctx context.Context, query string) (QueryRecommendation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return QueryRecommendation{}, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if s.foodIndex == nil {
		if err := s.IngestCatalog(ctx); err != nil {
			return QueryRecommendation{}, err
		}
	}

	criteria, err := s.deps.Intent.ExtractFilterCriteria(ctx, query)
	if err != nil {
		s.logger.Warn("filter extraction failed; continuing without criteria", zap.Error(err))
		criteria = domain.FilterCriteria{}
	}
	s.logger.Info("extracted filter criteria",
		zap.String("diet", criteria.Diet), zap.String("cuisine", criteria.Cuisine))

	vec, err := s.deps.Embedder.EmbedOne(ctx, query)
	if err != nil {
		return QueryRecommendation{}, err
	}

	opts := recommend.Options{TopN: s.opts.TopN}
	if s.opts.ApplyFilters {
		opts.Filter = &criteria
	}
	results := s.deps.Resolver.Search(ctx, s.foodIndex, vec, opts)
	if len(results) == 0 {
		s.logger.Info("no food items found", zap.String("query", query))
	}
	return QueryRecommendation{Query: query, Criteria: criteria, Results: results}, nil
}

// RecommendForDocument extracts ingredients from the document at path and
// ranks catalog items by ingredient similarity.
func (s *RecommendServiceImpl) RecommendForDocument(ctx context.Context, path string) (DocumentRecommendation, error) {
	if s.recipeIdx == nil {
		if err := s.IngestRecipes(ctx); err != nil {
			return DocumentRecommendation{}, err
		}
	}

	text, err := s.deps.Documents.ExtractText(ctx, path)
	if err != nil {
		return DocumentRecommendation{}, err
	}
	found := ingredients.Extract(text)
	out := DocumentRecommendation{Path: path, Ingredients: found, Results: []domain.RankedResult{}}
	if len(found) == 0 {
		s.logger.Info("no ingredients found", zap.String("path", path))
		return out, nil
	}
	s.logger.Info("extracted ingredients", zap.Strings("ingredients", found))

	vec, err := s.deps.Embedder.EmbedOne(ctx, ingredients.Join(found))
	if err != nil {
		return DocumentRecommendation{}, err
	}
	out.Results = s.deps.Resolver.Search(ctx, s.recipeIdx, vec, recommend.Options{TopN: s.opts.TopN})
	return out, nil
}
