package ingredients

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := map[string]struct {
		text string
		want []string
	}{
		"basic-section": {
			text: "Ingredients: chicken, rice, masala. For serving...",
			want: []string{"chicken", "rice", "masala"},
		},
		"case-insensitive-markers": {
			text: "Butter Chicken INGREDIENTS Butter; Garlic-Ginger paste FOR the gravy",
			want: []string{"butter", "garlic", "ginger", "paste"},
		},
		"numbers-kept": {
			text: "Ingredients\n2 cups flour\n1 egg\nFor the topping",
			want: []string{"2", "cups", "flour", "1", "egg"},
		},
		"stops-at-first-end-marker": {
			text: "Ingredients: tofu For one. Then cook For two.",
			want: []string{"tofu"},
		},
		"for-without-trailing-space-is-not-marker": {
			text: "Ingredients: uniform oats Formula mix. For breakfast",
			want: []string{"uniform", "oats", "formula", "mix"},
		},
		"word-ending-in-for-is-marker": {
			text: "Ingredients: rice, therefor beans. For serving",
			want: []string{"rice", "there"},
		},
		"no-start-marker": {
			text: "Chicken, rice. For serving",
			want: []string{},
		},
		"no-end-marker": {
			text: "Ingredients: chicken, rice",
			want: []string{},
		},
		"end-marker-before-start-only": {
			text: "For starters, Ingredients: chicken",
			want: []string{},
		},
		"end-marker-immediately-after-start": {
			text: "IngredientsFor x",
			want: []string{},
		},
		"only-punctuation-between-markers": {
			text: "Ingredients: --- For now",
			want: []string{},
		},
		"empty-text": {
			text: "",
			want: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Extract(tt.text)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "chicken rice masala", Join([]string{"Chicken", "rice", "MASALA"}))
	assert.Equal(t, "", Join(nil))
}
