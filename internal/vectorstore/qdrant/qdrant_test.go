package qdrant

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

type fakeQdrant struct {
	t        *testing.T
	exists   bool
	created  map[string]any
	points   map[string]any
	search   map[string]any
	apiKey   string
	response string
}

func (f *fakeQdrant) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.apiKey = r.Header.Get("api-key")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/collections/food":
		if !f.exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"result":{}}`))
	case r.Method == http.MethodPut && r.URL.Path == "/collections/food":
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&f.created))
		f.exists = true
		_, _ = w.Write([]byte(`{"result":true}`))
	case r.Method == http.MethodPut && r.URL.Path == "/collections/food/points":
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&f.points))
		_, _ = w.Write([]byte(`{"result":{}}`))
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/points/search"):
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&f.search))
		_, _ = w.Write([]byte(f.response))
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func TestStorage_CreatesOnFirstUpsert(t *testing.T) {
	f := &fakeQdrant{t: t}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	s := NewStorage(Config{URL: srv.URL, APIKey: "secret"})
	ctx := context.Background()

	c, err := s.GetOrCreateCollection(ctx, "food")
	require.NoError(t, err)
	assert.Equal(t, "food", c.Name())
	assert.Nil(t, f.created)

	require.NoError(t, c.Upsert(ctx, vectorstore.Records{
		IDs:        []string{"1"},
		Documents:  []string{"doc"},
		Embeddings: [][]float64{{0.1, 0.2, 0.3}},
		Metadatas:  []map[string]string{{"diet": "vegan"}},
	}))
	require.NotNil(t, f.created)
	vectors := f.created["vectors"].(map[string]any)
	assert.Equal(t, float64(3), vectors["size"])
	assert.Equal(t, "secret", f.apiKey)

	points := f.points["points"].([]any)
	require.Len(t, points, 1)
	p := points[0].(map[string]any)
	assert.Equal(t, PointID("1"), p["id"])
	payload := p["payload"].(map[string]any)
	assert.Equal(t, "1", payload["item_id"])
	assert.Equal(t, "vegan", payload["diet"])
	assert.Equal(t, "doc", payload["document"])
}

func TestStorage_Query(t *testing.T) {
	f := &fakeQdrant{
		t:        t,
		exists:   true,
		response: `{"result":[{"score":0.9,"payload":{"item_id":"2"}},{"score":0.4,"payload":{}},{"score":0.25,"payload":{"item_id":"7"}}]}`,
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	s := NewStorage(Config{URL: srv.URL})

	c, err := s.GetOrCreateCollection(context.Background(), "food")
	require.NoError(t, err)

	res, err := c.Query(context.Background(), vectorstore.Query{
		Embeddings: [][]float64{{1, 0}},
		N:          3,
		Where:      map[string]string{"cuisine": "indian"},
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"2", "7"}}, res.IDs)
	require.Len(t, res.Distances[0], 2)
	assert.InDelta(t, 0.1, res.Distances[0][0], 1e-9)
	assert.InDelta(t, 0.75, res.Distances[0][1], 1e-9)
	assert.Equal(t, float64(3), f.search["limit"])
	assert.Contains(t, f.search, "filter")
}

func TestStorage_QueryError(t *testing.T) {
	f := &fakeQdrant{t: t, exists: true}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	s := NewStorage(Config{URL: srv.URL})
	c := &Collection{storage: s, name: "missing", exists: true}

	_, err := c.Query(context.Background(), vectorstore.Query{Embeddings: [][]float64{{1}}})
	assert.Error(t, err)
}

func TestPointID_Deterministic(t *testing.T) {
	assert.Equal(t, PointID("9_9"), PointID("9_9"))
	assert.NotEqual(t, PointID("9"), PointID("9_9"))
}

func TestFilterClause(t *testing.T) {
	assert.Nil(t, filterClause(nil))
	got := filterClause(map[string]string{"diet": "vegan", "cuisine": "indian"})
	must := got["must"].([]map[string]any)
	require.Len(t, must, 2)
	assert.Equal(t, "cuisine", must[0]["key"])
	assert.Equal(t, "diet", must[1]["key"])
}
