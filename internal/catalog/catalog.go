package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"foodrec/internal/domain"
)

//go:embed seed.yaml
var seedYAML []byte

// Catalog is a normalized, read-only set of items with lookup by ID.
type Catalog struct {
	items []domain.CatalogItem
	byID  map[string]int
}

// New normalizes items and indexes them by their final ID.
func New(items []domain.CatalogItem) *Catalog {
	items = Normalize(items)
	byID := make(map[string]int, len(items))
	for i, it := range items {
		byID[it.ID] = i
	}
	return &Catalog{items: items, byID: byID}
}

// Items returns the normalized items in catalog order.
func (c *Catalog) Items() []domain.CatalogItem { return c.items }

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// Lookup finds an item by exact ID.
func (c *Catalog) Lookup(id string) (domain.CatalogItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.CatalogItem{}, false
	}
	return c.items[i], true
}

// IDs returns item IDs in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.items))
	for i, it := range c.items {
		ids[i] = it.ID
	}
	return ids
}

// Documents renders every item with render, in catalog order.
func (c *Catalog) Documents(render func(domain.CatalogItem) string) []string {
	docs := make([]string, len(c.items))
	for i, it := range c.items {
		docs[i] = render(it)
	}
	return docs
}

// Ingredients returns every distinct ingredient, lower-cased, in first-seen order.
func (c *Catalog) Ingredients() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, it := range c.items {
		for _, ing := range it.Ingredients {
			ing = strings.ToLower(strings.TrimSpace(ing))
			if _, ok := seen[ing]; ok || ing == "" {
				continue
			}
			seen[ing] = struct{}{}
			out = append(out, ing)
		}
	}
	return out
}

// Metadatas returns index metadata for every item, in catalog order.
func (c *Catalog) Metadatas() []map[string]string {
	out := make([]map[string]string, len(c.items))
	for i, it := range c.items {
		out[i] = Metadata(it)
	}
	return out
}

type catalogFile struct {
	Items []domain.CatalogItem `yaml:"items" json:"items"`
}

// Seed returns the built-in food catalog.
func Seed() ([]domain.CatalogItem, error) {
	return parse(seedYAML, false)
}

// Load reads a catalog from a YAML file, or JSON when the extension is .json.
// An empty path yields the built-in catalog.
func Load(path string) ([]domain.CatalogItem, error) {
	if path == "" {
		return Seed()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	items, err := parse(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return items, nil
}

func parse(data []byte, isJSON bool) ([]domain.CatalogItem, error) {
	var f catalogFile
	var err error
	if isJSON {
		err = json.Unmarshal(data, &f)
	} else {
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, err
	}
	if len(f.Items) == 0 {
		return nil, fmt.Errorf("%w: catalog has no items", domain.ErrInvalidInput)
	}
	return f.Items, nil
}
