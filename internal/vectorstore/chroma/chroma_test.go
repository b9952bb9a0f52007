package chroma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodrec/internal/vectorstore"
)

const v2Prefix = "/api/v2/tenants/default_tenant/databases/default_database"

type fakeChroma struct {
	t         *testing.T
	prefix    string
	upserts   []map[string]any
	lastQuery map[string]any
	reply     string
}

func (f *fakeChroma) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
	switch strings.TrimPrefix(r.URL.Path, f.prefix) {
	case "/collections":
		assert.Equal(f.t, true, body["get_or_create"])
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "c-123", "name": body["name"]})
	case "/collections/c-123/upsert":
		f.upserts = append(f.upserts, body)
		_, _ = w.Write([]byte("true"))
	case "/collections/c-123/query":
		f.lastQuery = body
		_, _ = w.Write([]byte(f.reply))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFake(t *testing.T, reply string) (*fakeChroma, *Storage) {
	f := &fakeChroma{t: t, reply: reply, prefix: v2Prefix}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, NewStorage(Config{URL: srv.URL})
}

func TestStorage_V1Paths(t *testing.T) {
	f := &fakeChroma{t: t, reply: `{"ids":[["1"]],"distances":[[0.2]]}`, prefix: "/api/v1"}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	s := NewStorage(Config{URL: srv.URL, APIVersion: APIv1})

	c, err := s.GetOrCreateCollection(context.Background(), "food")
	require.NoError(t, err)
	res, err := c.Query(context.Background(), vectorstore.Query{Embeddings: [][]float64{{1}}, N: 1})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1"}}, res.IDs)
}

func TestStorage_UpsertAndQuery(t *testing.T) {
	f, s := newFake(t, `{"ids":[["2","1"]],"distances":[[0.1,0.7]]}`)
	ctx := context.Background()

	c, err := s.GetOrCreateCollection(ctx, "food_collection")
	require.NoError(t, err)
	assert.Equal(t, "food_collection", c.Name())

	require.NoError(t, c.Upsert(ctx, vectorstore.Records{
		IDs:        []string{"1", "2"},
		Documents:  []string{"a", "b"},
		Embeddings: [][]float64{{1, 0}, {0, 1}},
		Metadatas:  []map[string]string{{"diet": "vegan"}, {"diet": "paleo"}},
	}))
	require.Len(t, f.upserts, 1)
	assert.Equal(t, []any{"1", "2"}, f.upserts[0]["ids"])
	assert.Contains(t, f.upserts[0], "metadatas")

	res, err := c.Query(ctx, vectorstore.Query{
		Embeddings: [][]float64{{0, 1}},
		N:          5,
		Where:      map[string]string{"diet": "vegan"},
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"2", "1"}}, res.IDs)
	assert.Equal(t, [][]float64{{0.1, 0.7}}, res.Distances)
	assert.Equal(t, float64(5), f.lastQuery["n_results"])
	assert.Equal(t, map[string]any{"diet": "vegan"}, f.lastQuery["where"])
}

func TestStorage_QueryWithoutWhere(t *testing.T) {
	f, s := newFake(t, `{"ids":[[]],"distances":[[]]}`)
	c, err := s.GetOrCreateCollection(context.Background(), "food")
	require.NoError(t, err)

	res, err := c.Query(context.Background(), vectorstore.Query{Embeddings: [][]float64{{1}}})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{}}, res.IDs)
	assert.NotContains(t, f.lastQuery, "where")
	assert.Equal(t, float64(5), f.lastQuery["n_results"])
}

func TestStorage_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)
	s := NewStorage(Config{URL: srv.URL})

	_, err := s.GetOrCreateCollection(context.Background(), "food")
	assert.Error(t, err)

	_, err = s.GetOrCreateCollection(context.Background(), "")
	assert.Error(t, err)

	c := &Collection{storage: s, id: "x", name: "food"}
	assert.Error(t, c.Upsert(context.Background(), vectorstore.Records{IDs: []string{"1"}}))
}

func TestWhereClause(t *testing.T) {
	assert.Nil(t, whereClause(nil))
	assert.Equal(t, map[string]any{"cuisine": "indian"}, whereClause(map[string]string{"cuisine": "indian"}))

	multi := whereClause(map[string]string{"cuisine": "indian", "diet": "vegan"})
	clauses, ok := multi["$and"].([]map[string]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []map[string]any{{"cuisine": "indian"}, {"diet": "vegan"}}, clauses)
}

func TestEndpoint(t *testing.T) {
	tests := map[string]struct {
		cfg  Config
		want string
	}{
		"v2-defaults": {
			cfg:  Config{URL: "http://chroma:8000"},
			want: "http://chroma:8000/api/v2/tenants/default_tenant/databases/default_database/collections/c1/query",
		},
		"v2-scoped": {
			cfg:  Config{URL: "http://chroma:8000", APIVersion: APIv2, Tenant: "t1", Database: "db"},
			want: "http://chroma:8000/api/v2/tenants/t1/databases/db/collections/c1/query",
		},
		"v1-query-params": {
			cfg:  Config{URL: "http://chroma:8000", APIVersion: APIv1, Tenant: "t1", Database: "db"},
			want: "http://chroma:8000/api/v1/collections/c1/query?database=db&tenant=t1",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewStorage(tt.cfg).endpoint("collections", "c1", "query"))
		})
	}
}
