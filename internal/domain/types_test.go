package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogItem_UnmarshalJSON(t *testing.T) {
	tests := map[string]struct {
		input   string
		wantID  string
		wantErr bool
	}{
		"string-id":  {input: `{"id":"a1","name":"Dal"}`, wantID: "a1"},
		"number-id":  {input: `{"id":12,"name":"Dal"}`, wantID: "12"},
		"missing-id": {input: `{"name":"Dal"}`, wantID: ""},
		"null-id":    {input: `{"id":null,"name":"Dal"}`, wantID: ""},
		"bool-id":    {input: `{"id":true,"name":"Dal"}`, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var item CatalogItem
			err := json.Unmarshal([]byte(tt.input), &item)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, item.ID)
			assert.Equal(t, "Dal", item.Name)
		})
	}
}

func TestEmbedding_IsZero(t *testing.T) {
	assert.True(t, Embedding{}.IsZero())
	assert.True(t, Embedding{0, 0, 0}.IsZero())
	assert.False(t, Embedding{0, 0.1, 0}.IsZero())
}
