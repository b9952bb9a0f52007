package main

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"foodrec/internal/catalog"
	"foodrec/internal/config"
	"foodrec/internal/document"
	"foodrec/internal/embedding"
	"foodrec/internal/embedding/openai"
	"foodrec/internal/embedding/tfidf"
	"foodrec/internal/huggingface"
	"foodrec/internal/index"
	"foodrec/internal/intent"
	"foodrec/internal/recommend"
	"foodrec/internal/service"
	"foodrec/internal/vectorstore"
	"foodrec/internal/vectorstore/chroma"
	"foodrec/internal/vectorstore/memory"
	"foodrec/internal/vectorstore/qdrant"
)

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func hfClient(hf *config.HuggingFaceConfig) (*huggingface.Client, error) {
	return huggingface.NewClient(huggingface.Config{
		BaseURL:           hf.BaseURL,
		APIKeyEnv:         hf.APIKeyEnv,
		Timeout:           seconds(hf.TimeoutSecs),
		RequestsPerSecond: hf.RequestsPerSecond,
		MaxRetries:        hf.MaxRetries,
	})
}

// newEmbedder selects the embedder. ingredients seed the tfidf phrase
// vocabulary and boosted terms.
func newEmbedder(cfg config.EmbedderConfig, ingredients []string) (embedding.Embedder, error) {
	switch cfg.Type {
	case "tfidf", "":
		return tfidf.NewEmbedder(
			tfidf.WithPhrases(ingredients),
			tfidf.WithBoost(ingredients, cfg.IngredientBoost),
		), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, errors.New("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:    cfg.OpenAI.BaseURL,
			APIKeyEnv:  cfg.OpenAI.APIKeyEnv,
			Model:      cfg.OpenAI.Model,
			Timeout:    seconds(cfg.OpenAI.TimeoutSecs),
			MaxRetries: cfg.OpenAI.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		return client, nil
	case "huggingface":
		if cfg.HuggingFace == nil {
			return nil, errors.New("huggingface embedder config missing")
		}
		client, err := hfClient(cfg.HuggingFace)
		if err != nil {
			return nil, fmt.Errorf("huggingface embedder init failed: %w", err)
		}
		return huggingface.NewEmbedder(client, cfg.HuggingFace.Model), nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

func newClassifier(cfg config.ClassifierConfig) (intent.Classifier, error) {
	switch cfg.Type {
	case "none", "":
		return intent.NoneClassifier{}, nil
	case "huggingface":
		if cfg.HuggingFace == nil {
			return nil, errors.New("huggingface classifier config missing")
		}
		client, err := hfClient(cfg.HuggingFace)
		if err != nil {
			return nil, fmt.Errorf("huggingface classifier init failed: %w", err)
		}
		return huggingface.NewClassifier(client, cfg.HuggingFace.Model), nil
	default:
		return nil, fmt.Errorf("unknown classifier: %s", cfg.Type)
	}
}

func newStore(cfg config.VectorStoreConfig) (vectorstore.Store, error) {
	switch cfg.Type {
	case "memory", "":
		return memory.NewStorage(), nil
	case "chroma":
		if cfg.Chroma == nil {
			return nil, errors.New("chroma config missing")
		}
		return chroma.NewStorage(chroma.Config{
			URL:        cfg.Chroma.URL,
			APIVersion: cfg.Chroma.APIVersion,
			Tenant:     cfg.Chroma.Tenant,
			Database:   cfg.Chroma.Database,
			Timeout:    seconds(cfg.Chroma.TimeoutSecs),
		}), nil
	case "qdrant":
		if cfg.Qdrant == nil {
			return nil, errors.New("qdrant config missing")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:     cfg.Qdrant.URL,
			APIKey:  cfg.Qdrant.APIKey,
			Timeout: seconds(cfg.Qdrant.TimeoutSecs),
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Type)
	}
}

// buildService assembles the pipeline described by cfg. The returned
// summary describes the assembled components.
func buildService(cfg *config.AppConfig, logger *zap.Logger) (*service.RecommendServiceImpl, string, error) {
	items, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load catalog: %w", err)
	}
	cat := catalog.New(items)

	emb, err := newEmbedder(cfg.Embedder, cat.Ingredients())
	if err != nil {
		return nil, "", err
	}
	cls, err := newClassifier(cfg.Classifier)
	if err != nil {
		return nil, "", err
	}
	st, err := newStore(cfg.VectorStore)
	if err != nil {
		return nil, "", err
	}

	svc := service.NewRecommendService(service.Deps{
		Catalog:   cat,
		Embedder:  embedding.NewGateway(emb, cfg.Embedder.BatchSize, logger),
		Intent:    intent.NewExtractor(cls, logger),
		Documents: document.NewExtractor(),
		Index:     index.NewManager(st, logger),
		Resolver:  recommend.NewResolver(cat, logger),
		Logger:    logger,
	}, service.Options{
		Collection:       cfg.VectorStore.Collection,
		RecipeCollection: cfg.VectorStore.RecipeCollection,
		TopN:             cfg.Search.TopN,
		ApplyFilters:     cfg.Search.ApplyFilters,
	})
	summary := fmt.Sprintf("%d items · embedder %s · classifier %s · store %s",
		cat.Len(), emb.Name(), cfg.Classifier.Type, cfg.VectorStore.Type)
	return svc, summary, nil
}
