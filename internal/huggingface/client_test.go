package huggingface

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("TEST_HF_KEY", "hf_test")
	c, err := NewClient(Config{BaseURL: srv.URL, APIKeyEnv: "TEST_HF_KEY"})
	require.NoError(t, err)
	return c
}

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient(Config{APIKeyEnv: "FOODREC_UNSET_HF_KEY_FOR_TEST"})
	assert.Error(t, err)
}

func TestEmbedder_Embed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pipeline/feature-extraction/sentence-transformers/all-MiniLM-L6-v2", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		var body struct {
			Inputs  []string       `json:"inputs"`
			Options map[string]any `json:"options"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"chicken", "rice"}, body.Inputs)
		assert.Equal(t, true, body.Options["wait_for_model"])
		_, _ = w.Write([]byte(`[[0.1,0.2,0.3],[0.4,0.5,0.6]]`))
	})

	e := NewEmbedder(c, "sentence-transformers/all-MiniLM-L6-v2")
	got, err := e.Embed(context.Background(), []string{"chicken", "rice"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}}, got)
	assert.Equal(t, 3, e.Dimension())
	assert.NoError(t, e.Prepare(context.Background(), nil))
}

func TestEmbedder_Errors(t *testing.T) {
	tests := map[string]struct {
		status int
		body   string
	}{
		"count-mismatch": {status: http.StatusOK, body: `[[0.1]]`},
		"bad-request":    {status: http.StatusBadRequest, body: `{"error":"bad input"}`},
		"malformed-json": {status: http.StatusOK, body: `{"oops"`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := NewEmbedder(c, "m").Embed(context.Background(), []string{"a", "b"})
			assert.Error(t, err)
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	tests := map[string]struct {
		reply      string
		wantLabels []string
		wantScores []float64
	}{
		"legacy-object": {
			reply:      `{"sequence":"q","labels":["vegan","paleo"],"scores":[0.9,0.1]}`,
			wantLabels: []string{"vegan", "paleo"},
			wantScores: []float64{0.9, 0.1},
		},
		"label-score-list-sorted-desc": {
			reply:      `[{"label":"chinese","score":0.2},{"label":"indian","score":0.7},{"label":"japanese","score":0.1}]`,
			wantLabels: []string{"indian", "chinese", "japanese"},
			wantScores: []float64{0.7, 0.2, 0.1},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/models/facebook/bart-large-mnli", r.URL.Path)
				raw, _ := io.ReadAll(r.Body)
				var body struct {
					Inputs     string `json:"inputs"`
					Parameters struct {
						CandidateLabels []string `json:"candidate_labels"`
					} `json:"parameters"`
				}
				assert.NoError(t, json.Unmarshal(raw, &body))
				assert.Equal(t, "spicy curry", body.Inputs)
				assert.Equal(t, []string{"chinese", "indian", "japanese"}, body.Parameters.CandidateLabels)
				_, _ = w.Write([]byte(tt.reply))
			})

			got, err := NewClassifier(c, "facebook/bart-large-mnli").
				Classify(context.Background(), "spicy curry", []string{"chinese", "indian", "japanese"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabels, got.Labels)
			assert.Equal(t, tt.wantScores, got.Scores)
		})
	}
}

func TestClassifier_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := NewClassifier(c, "m").Classify(context.Background(), "q", []string{"a"})
	assert.Error(t, err)
}
