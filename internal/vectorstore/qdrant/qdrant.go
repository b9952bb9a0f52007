package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"foodrec/internal/vectorstore"
)

const (
	payloadItemID   = "item_id"
	payloadDocument = "document"
)

// Storage is a minimal REST client to Qdrant.
// It assumes cosine distance and creates collections on first write.
type Storage struct {
	url    string
	apiKey string
	client *retryablehttp.Client
}

// Config contains connection details for a Qdrant server.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// NewStorage returns a client for the server at cfg.URL.
func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = timeout
	rc.RetryMax = 2
	rc.Logger = nil
	return &Storage{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: rc,
	}
}

// GetOrCreateCollection returns a handle to name. Qdrant needs the vector
// size up front, so a missing collection is created by the first Upsert.
func (s *Storage) GetOrCreateCollection(ctx context.Context, name string) (vectorstore.Collection, error) {
	if name == "" {
		return nil, errors.New("collection name is required")
	}
	status, err := s.do(ctx, http.MethodGet, fmt.Sprintf("%s/collections/%s", s.url, name), nil, nil)
	if err != nil && status != http.StatusNotFound {
		return nil, err
	}
	return &Collection{storage: s, name: name, exists: status != http.StatusNotFound}, nil
}

// Collection is a handle to a Qdrant collection.
type Collection struct {
	storage *Storage
	name    string
	exists  bool
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// PointID maps an item id onto the UUID Qdrant stores it under.
func PointID(id string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String()
}

// Upsert writes records keyed by PointID(id); the original id travels in the payload.
func (c *Collection) Upsert(ctx context.Context, r vectorstore.Records) error {
	if len(r.IDs) != len(r.Embeddings) {
		return errors.New("ids and embeddings length mismatch")
	}
	if len(r.IDs) == 0 {
		return nil
	}
	if !c.exists {
		if err := c.create(ctx, len(r.Embeddings[0])); err != nil {
			return err
		}
	}
	points := make([]map[string]any, len(r.IDs))
	for i, id := range r.IDs {
		payload := map[string]any{payloadItemID: id}
		if r.Documents != nil {
			payload[payloadDocument] = r.Documents[i]
		}
		if r.Metadatas != nil {
			for k, v := range r.Metadatas[i] {
				payload[k] = v
			}
		}
		points[i] = map[string]any{
			"id":      PointID(id),
			"vector":  r.Embeddings[i],
			"payload": payload,
		}
	}
	body := map[string]any{"points": points}
	_, err := c.storage.do(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s/points?wait=true", c.storage.url, c.name), body, nil)
	return err
}

func (c *Collection) create(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if _, err := c.storage.do(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s", c.storage.url, c.name), body, nil); err != nil {
		return err
	}
	c.exists = true
	return nil
}

// Query searches once per query embedding. Distance is 1 - cosine score.
func (c *Collection) Query(ctx context.Context, q vectorstore.Query) (vectorstore.QueryResult, error) {
	n := q.N
	if n <= 0 {
		n = 5
	}
	out := vectorstore.QueryResult{
		IDs:       make([][]string, 0, len(q.Embeddings)),
		Distances: make([][]float64, 0, len(q.Embeddings)),
	}
	for _, vec := range q.Embeddings {
		req := map[string]any{
			"vector":       vec,
			"limit":        n,
			"with_payload": true,
		}
		if filter := filterClause(q.Where); filter != nil {
			req["filter"] = filter
		}
		var resp struct {
			Result []struct {
				Score   float64        `json:"score"`
				Payload map[string]any `json:"payload"`
			} `json:"result"`
		}
		if _, err := c.storage.do(ctx, http.MethodPost, fmt.Sprintf("%s/collections/%s/points/search", c.storage.url, c.name), req, &resp); err != nil {
			return vectorstore.QueryResult{}, err
		}
		ids := make([]string, 0, len(resp.Result))
		dists := make([]float64, 0, len(resp.Result))
		for _, r := range resp.Result {
			id, ok := r.Payload[payloadItemID].(string)
			if !ok {
				continue
			}
			ids = append(ids, id)
			dists = append(dists, 1-r.Score)
		}
		out.IDs = append(out.IDs, ids)
		out.Distances = append(out.Distances, dists)
	}
	return out, nil
}

func filterClause(where map[string]string) map[string]any {
	if len(where) == 0 {
		return nil
	}
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	must := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		must = append(must, map[string]any{
			"key":   k,
			"match": map[string]any{"value": where[k]},
		})
	}
	return map[string]any{"must": must}
}

// do sends a JSON request and decodes the reply into out when non-nil. The
// response status is returned alongside any error.
func (s *Storage) do(ctx context.Context, method, url string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode, nil
}
