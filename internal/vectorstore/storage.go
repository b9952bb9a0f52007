package vectorstore

import "context"

// Store hands out named collections.
type Store interface {
	// GetOrCreateCollection returns the named collection, creating it if missing.
	GetOrCreateCollection(ctx context.Context, name string) (Collection, error)
}

// Collection is a named set of (id, document, embedding, metadata) tuples.
type Collection interface {
	Name() string
	// Upsert writes index-aligned records, replacing any with the same id.
	Upsert(ctx context.Context, records Records) error
	// Query returns the N nearest records per query embedding.
	Query(ctx context.Context, query Query) (QueryResult, error)
}

// Records are index-aligned; Metadatas may be nil.
type Records struct {
	IDs        []string
	Documents  []string
	Embeddings [][]float64
	Metadatas  []map[string]string
}

// Query asks for the N nearest neighbours of each embedding. Where, if set,
// restricts matches to records whose metadata equals every given pair.
type Query struct {
	Embeddings [][]float64
	N          int
	Where      map[string]string
}

// QueryResult holds one row of ids and distances per query embedding,
// nearest first. Lower distance means more similar.
type QueryResult struct {
	IDs       [][]string
	Distances [][]float64
}
