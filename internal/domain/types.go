package domain

import (
	"encoding/json"
	"fmt"
)

// CatalogItem is a single food entry in the recommendation catalog.
// Cuisine and Diet are optional tags carried into index metadata.
type CatalogItem struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Ingredients []string `yaml:"ingredients" json:"ingredients"`
	Cuisine     string   `yaml:"cuisine,omitempty" json:"cuisine,omitempty"`
	Diet        string   `yaml:"diet,omitempty" json:"diet,omitempty"`
}

// UnmarshalJSON accepts the id as a JSON string or number and keeps its
// string form, so numeric catalogs load the same way from JSON and YAML.
func (c *CatalogItem) UnmarshalJSON(data []byte) error {
	type plain CatalogItem
	var aux struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := decodeID(aux.ID)
	if err != nil {
		return err
	}
	*c = CatalogItem(aux.plain)
	c.ID = id
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id must be a string or number: %w", err)
	}
	return n.String(), nil
}

// Embedding is a fixed-length vector produced by an embedding model.
type Embedding []float64

// IsZero reports whether every component is zero, i.e. the text carried no
// signal the model could represent.
func (e Embedding) IsZero() bool {
	for _, v := range e {
		if v != 0 {
			return false
		}
	}
	return true
}

// FilterCriteria holds the dietary or cuisine intent detected in a query.
// An empty field means no confident signal for that family.
type FilterCriteria struct {
	Diet    string `json:"diet,omitempty"`
	Cuisine string `json:"cuisine,omitempty"`
}

// IsEmpty reports whether neither family carries a value.
func (f FilterCriteria) IsEmpty() bool {
	return f.Diet == "" && f.Cuisine == ""
}

// Metadata renders the criteria as vector store metadata constraints.
func (f FilterCriteria) Metadata() map[string]string {
	m := map[string]string{}
	if f.Diet != "" {
		m[MetadataDiet] = f.Diet
	}
	if f.Cuisine != "" {
		m[MetadataCuisine] = f.Cuisine
	}
	return m
}

// Metadata keys written alongside indexed catalog documents.
const (
	MetadataName    = "name"
	MetadataDiet    = "diet"
	MetadataCuisine = "cuisine"
)

// RankedResult is a catalog item joined with its distance to the query.
// Lower scores are closer.
type RankedResult struct {
	ID          string  `json:"id"`
	Score       float64 `json:"score"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}
