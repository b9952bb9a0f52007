package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"foodrec/internal/vectorstore"
)

// API versions understood by Storage.
const (
	APIv1 = "v1"
	APIv2 = "v2"
)

const (
	defaultTenant   = "default_tenant"
	defaultDatabase = "default_database"
)

// Storage is a minimal REST client for a Chroma server.
type Storage struct {
	url        string
	apiVersion string
	tenant     string
	database   string
	client     *retryablehttp.Client
}

// Config contains connection details for a Chroma server. APIVersion
// defaults to v2, which scopes collections under tenant and database path
// segments; v1 passes them as query parameters.
type Config struct {
	URL        string
	APIVersion string
	Tenant     string
	Database   string
	Timeout    time.Duration
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
	version := cfg.APIVersion
	if version == "" {
		version = APIv2
	}
	return &Storage{
		url:        cfg.URL,
		apiVersion: version,
		tenant:     cfg.Tenant,
		database:   cfg.Database,
		client:     rc,
	}
}

// GetOrCreateCollection returns the named collection, creating it if missing.
func (s *Storage) GetOrCreateCollection(ctx context.Context, name string) (vectorstore.Collection, error) {
	if name == "" {
		return nil, errors.New("collection name is required")
	}
	body := map[string]any{
		"name":          name,
		"get_or_create": true,
		"metadata":      map[string]any{"hnsw:space": "l2"},
	}
	var resp struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := s.postJSON(ctx, s.endpoint("collections"), body, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("chroma returned no id for collection %s", name)
	}
	return &Collection{storage: s, id: resp.ID, name: name}, nil
}

// Collection is a handle to a server-side collection.
type Collection struct {
	storage *Storage
	id      string
	name    string
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Upsert writes records, replacing those whose id already exists.
func (c *Collection) Upsert(ctx context.Context, r vectorstore.Records) error {
	if len(r.IDs) != len(r.Embeddings) {
		return errors.New("ids and embeddings length mismatch")
	}
	body := map[string]any{
		"ids":        r.IDs,
		"embeddings": r.Embeddings,
	}
	if r.Documents != nil {
		body["documents"] = r.Documents
	}
	if r.Metadatas != nil {
		body["metadatas"] = r.Metadatas
	}
	return c.storage.postJSON(ctx, c.storage.endpoint("collections", c.id, "upsert"), body, nil)
}

// Query returns the nearest records per query embedding.
func (c *Collection) Query(ctx context.Context, q vectorstore.Query) (vectorstore.QueryResult, error) {
	n := q.N
	if n <= 0 {
		n = 5
	}
	body := map[string]any{
		"query_embeddings": q.Embeddings,
		"n_results":        n,
		"include":          []string{"distances"},
	}
	if where := whereClause(q.Where); where != nil {
		body["where"] = where
	}
	var resp struct {
		IDs       [][]string  `json:"ids"`
		Distances [][]float64 `json:"distances"`
	}
	if err := c.storage.postJSON(ctx, c.storage.endpoint("collections", c.id, "query"), body, &resp); err != nil {
		return vectorstore.QueryResult{}, err
	}
	return vectorstore.QueryResult{IDs: resp.IDs, Distances: resp.Distances}, nil
}

// whereClause renders equality constraints; several keys are joined with $and.
func whereClause(where map[string]string) map[string]any {
	switch len(where) {
	case 0:
		return nil
	case 1:
		for k, v := range where {
			return map[string]any{k: v}
		}
	}
	clauses := make([]map[string]any, 0, len(where))
	for k, v := range where {
		clauses = append(clauses, map[string]any{k: v})
	}
	return map[string]any{"$and": clauses}
}

func (s *Storage) endpoint(parts ...string) string {
	if s.apiVersion == APIv1 {
		return s.endpointV1(parts)
	}
	tenant, database := s.tenant, s.database
	if tenant == "" {
		tenant = defaultTenant
	}
	if database == "" {
		database = defaultDatabase
	}
	prefix := []string{"api", "v2", "tenants", tenant, "databases", database}
	u, err := url.JoinPath(s.url, append(prefix, parts...)...)
	if err != nil {
		return s.url
	}
	return u
}

func (s *Storage) endpointV1(parts []string) string {
	u, err := url.JoinPath(s.url, append([]string{"api", "v1"}, parts...)...)
	if err != nil {
		u = s.url
	}
	q := url.Values{}
	if s.tenant != "" {
		q.Set("tenant", s.tenant)
	}
	if s.database != "" {
		q.Set("database", s.database)
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (s *Storage) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chroma POST %s failed: %s: %s", url, resp.Status, string(msg))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
