package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"foodrec/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := map[string]struct {
		ids  []string
		want []string
	}{
		"unique-ids-unchanged": {
			ids:  []string{"1", "2", "3"},
			want: []string{"1", "2", "3"},
		},
		"duplicate-gets-index-suffix": {
			ids:  []string{"1", "1", "2"},
			want: []string{"1", "1_1", "2"},
		},
		"later-duplicate-uses-own-index": {
			ids:  []string{"a", "a_1", "a"},
			want: []string{"a", "a_1", "a_2"},
		},
		"rewritten-id-colliding-with-earlier-rewrite": {
			ids:  []string{"x", "x_2", "x"},
			want: []string{"x", "x_2", "x_2_2"},
		},
		"empty-ids-are-deduplicated": {
			ids:  []string{"", ""},
			want: []string{"", "_1"},
		},
		"empty-catalog": {
			ids:  nil,
			want: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			items := make([]domain.CatalogItem, len(tt.ids))
			for i, id := range tt.ids {
				items[i] = domain.CatalogItem{ID: id}
			}
			got := Normalize(items)
			ids := make([]string, 0, len(got))
			seen := map[string]bool{}
			for _, it := range got {
				assert.False(t, seen[it.ID], "duplicate id %q", it.ID)
				seen[it.ID] = true
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	build := func() []domain.CatalogItem {
		return []domain.CatalogItem{{ID: "7"}, {ID: "7"}, {ID: "7"}, {ID: "7_1"}}
	}
	first := Normalize(build())
	second := Normalize(build())
	assert.Equal(t, first, second)
	assert.Equal(t, "7_1_3", first[3].ID)
}

func TestRenderDocument(t *testing.T) {
	item := domain.CatalogItem{
		Name:        "Chana Masala",
		Description: "Chickpea curry",
		Ingredients: []string{"Chickpeas", "Onion", "Tomato"},
	}
	assert.Equal(t, "Chana Masala. Chickpea curry. Ingredients: Chickpeas, Onion, Tomato", RenderDocument(item))
	assert.Equal(t, "chickpeas onion tomato", RenderIngredientDocument(item))
	assert.Equal(t, ". . Ingredients: ", RenderDocument(domain.CatalogItem{}))
	assert.Equal(t, "", RenderIngredientDocument(domain.CatalogItem{}))
}

func TestMetadata(t *testing.T) {
	m := Metadata(domain.CatalogItem{Name: "Mapo Tofu", Diet: "vegan", Cuisine: "chinese"})
	assert.Equal(t, map[string]string{"name": "Mapo Tofu", "diet": "vegan", "cuisine": "chinese"}, m)

	m = Metadata(domain.CatalogItem{Name: "Plain"})
	assert.Equal(t, map[string]string{"name": "Plain"}, m)
}
