package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"foodrec/internal/domain"
	"foodrec/internal/service"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRanked(w io.Writer, results []domain.RankedResult) {
	for i, r := range results {
		fmt.Fprintf(w, "Top %d Recommended Food Name: %s\n", i+1, r.Name)
	}
}

func printQuery(w io.Writer, rec service.QueryRecommendation) {
	fmt.Fprintln(w, headingStyle.Render("Extracted Filter Criteria:"), formatCriteria(rec.Criteria))
	if len(rec.Results) == 0 {
		fmt.Fprintf(w, "No food items found similar to %q\n", rec.Query)
		return
	}
	printRanked(w, rec.Results)
}

func printDocument(w io.Writer, rec service.DocumentRecommendation) {
	if rec.NoIngredients() {
		fmt.Fprintln(w, "No ingredients found in the recipe.")
		return
	}
	fmt.Fprintln(w, headingStyle.Render("Extracted Ingredients:"), strings.Join(rec.Ingredients, ", "))
	if len(rec.Results) == 0 {
		fmt.Fprintln(w, "No similar recipes found.")
		return
	}
	fmt.Fprintln(w, headingStyle.Render("Recommended Recipes:"))
	printRanked(w, rec.Results)
}

func formatCriteria(c domain.FilterCriteria) string {
	if c.IsEmpty() {
		return "none"
	}
	parts := make([]string, 0, 2)
	if c.Diet != "" {
		parts = append(parts, "diet="+c.Diet)
	}
	if c.Cuisine != "" {
		parts = append(parts, "cuisine="+c.Cuisine)
	}
	return strings.Join(parts, " ")
}
