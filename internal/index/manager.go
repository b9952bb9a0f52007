// Package index owns the named vector collections the catalog is written to.
package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"foodrec/internal/domain"
	"foodrec/internal/logging"
	"foodrec/internal/vectorstore"
)

// Manager creates collections and writes aligned catalog records into them.
// It does not validate or deduplicate ids.
type Manager struct {
	store  vectorstore.Store
	logger *zap.Logger
}

// NewManager returns a Manager over store.
func NewManager(store vectorstore.Store, logger *zap.Logger) *Manager {
	return &Manager{store: store, logger: logging.OrNop(logger)}
}

// EnsureCollection gets or creates the named collection.
func (m *Manager) EnsureCollection(ctx context.Context, name string) (vectorstore.Collection, error) {
	c, err := m.store.GetOrCreateCollection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: collection %s: %w", domain.ErrIndex, name, err)
	}
	return c, nil
}

// Upsert writes index-aligned ids, documents and embeddings. metadatas may
// be nil; otherwise it must be aligned too.
func (m *Manager) Upsert(ctx context.Context, c vectorstore.Collection, ids, documents []string, embeddings []domain.Embedding, metadatas []map[string]string) error {
	if len(ids) != len(documents) || len(ids) != len(embeddings) {
		return fmt.Errorf("%w: misaligned upsert: %d ids, %d documents, %d embeddings",
			domain.ErrIndex, len(ids), len(documents), len(embeddings))
	}
	if metadatas != nil && len(metadatas) != len(ids) {
		return fmt.Errorf("%w: misaligned upsert: %d ids, %d metadatas", domain.ErrIndex, len(ids), len(metadatas))
	}
	vecs := make([][]float64, len(embeddings))
	for i, e := range embeddings {
		vecs[i] = e
	}
	records := vectorstore.Records{
		IDs:        ids,
		Documents:  documents,
		Embeddings: vecs,
		Metadatas:  metadatas,
	}
	if err := c.Upsert(ctx, records); err != nil {
		return fmt.Errorf("%w: upsert into %s: %w", domain.ErrIndex, c.Name(), err)
	}
	m.logger.Info("indexed documents", zap.String("collection", c.Name()), zap.Int("count", len(ids)))
	return nil
}
