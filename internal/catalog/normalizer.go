package catalog

import (
	"strconv"
	"strings"

	"foodrec/internal/domain"
)

// Normalize makes item IDs unique in catalog order. A colliding ID gets
// "_<index>" appended until it no longer collides, so the result depends on
// traversal order: normalizing a subset will not reproduce the IDs of a full
// catalog run. Items are patched in place and the same slice is returned.
func Normalize(items []domain.CatalogItem) []domain.CatalogItem {
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		for {
			if _, ok := seen[items[i].ID]; !ok {
				break
			}
			items[i].ID = items[i].ID + "_" + strconv.Itoa(i)
		}
		seen[items[i].ID] = struct{}{}
	}
	return items
}

// RenderDocument builds the text embedded for an item on the full-catalog path.
func RenderDocument(item domain.CatalogItem) string {
	return item.Name + ". " + item.Description + ". Ingredients: " + strings.Join(item.Ingredients, ", ")
}

// RenderIngredientDocument builds the text embedded for an item on the
// recipe-similarity path: its ingredients alone, lower-cased.
func RenderIngredientDocument(item domain.CatalogItem) string {
	return strings.ToLower(strings.Join(item.Ingredients, " "))
}

// Metadata returns the index metadata for an item.
func Metadata(item domain.CatalogItem) map[string]string {
	m := map[string]string{domain.MetadataName: item.Name}
	if item.Diet != "" {
		m[domain.MetadataDiet] = item.Diet
	}
	if item.Cuisine != "" {
		m[domain.MetadataCuisine] = item.Cuisine
	}
	return m
}
