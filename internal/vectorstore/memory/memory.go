package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"foodrec/internal/vectorstore"
)

// Storage is an in-process vector store. Distances are squared L2, matching
// the default space of the Chroma server.
type Storage struct {
	mu          sync.Mutex
	collections map[string]*Collection
}

// NewStorage returns an empty store.
func NewStorage() *Storage {
	return &Storage{collections: make(map[string]*Collection)}
}

// GetOrCreateCollection returns the named collection, creating it if missing.
func (s *Storage) GetOrCreateCollection(_ context.Context, name string) (vectorstore.Collection, error) {
	if name == "" {
		return nil, errors.New("collection name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = &Collection{name: name, byID: make(map[string]int)}
		s.collections[name] = c
	}
	return c, nil
}

type record struct {
	id       string
	document string
	vector   []float64
	metadata map[string]string
}

// Collection is a brute-force collection keyed by record id.
type Collection struct {
	mu        sync.RWMutex
	name      string
	dimension int
	records   []record
	byID      map[string]int
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Len returns the number of stored records.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Upsert inserts records, replacing those whose id already exists.
func (c *Collection) Upsert(_ context.Context, r vectorstore.Records) error {
	if len(r.IDs) != len(r.Embeddings) {
		return errors.New("ids and embeddings length mismatch")
	}
	if r.Documents != nil && len(r.Documents) != len(r.IDs) {
		return errors.New("ids and documents length mismatch")
	}
	if r.Metadatas != nil && len(r.Metadatas) != len(r.IDs) {
		return errors.New("ids and metadatas length mismatch")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	dim := c.dimension
	for _, v := range r.Embeddings {
		if dim == 0 {
			dim = len(v)
		}
		if len(v) != dim {
			return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(v), dim)
		}
	}
	c.dimension = dim
	for i, id := range r.IDs {
		rec := record{id: id, vector: r.Embeddings[i]}
		if r.Documents != nil {
			rec.document = r.Documents[i]
		}
		if r.Metadatas != nil {
			rec.metadata = r.Metadatas[i]
		}
		if j, ok := c.byID[id]; ok {
			c.records[j] = rec
			continue
		}
		c.byID[id] = len(c.records)
		c.records = append(c.records, rec)
	}
	return nil
}

// Query ranks records by squared L2 distance to each query embedding.
func (c *Collection) Query(ctx context.Context, q vectorstore.Query) (vectorstore.QueryResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := q.N
	if n <= 0 {
		n = 5
	}
	out := vectorstore.QueryResult{
		IDs:       make([][]string, len(q.Embeddings)),
		Distances: make([][]float64, len(q.Embeddings)),
	}
	for qi, vec := range q.Embeddings {
		if err := ctx.Err(); err != nil {
			return vectorstore.QueryResult{}, err
		}
		if c.dimension != 0 && len(vec) != c.dimension {
			return vectorstore.QueryResult{}, fmt.Errorf("query dimension mismatch: got %d, want %d", len(vec), c.dimension)
		}
		type hit struct {
			idx  int
			dist float64
		}
		hits := make([]hit, 0, len(c.records))
		for i, rec := range c.records {
			if !matches(rec.metadata, q.Where) {
				continue
			}
			hits = append(hits, hit{i, squaredL2(rec.vector, vec)})
		}
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
		if len(hits) > n {
			hits = hits[:n]
		}
		ids := make([]string, len(hits))
		dists := make([]float64, len(hits))
		for i, h := range hits {
			ids[i] = c.records[h.idx].id
			dists[i] = h.dist
		}
		out.IDs[qi] = ids
		out.Distances[qi] = dists
	}
	return out, nil
}

func matches(metadata, where map[string]string) bool {
	for k, v := range where {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

func squaredL2(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
