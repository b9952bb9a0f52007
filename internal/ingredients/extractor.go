// Package ingredients pulls an ingredient list out of free recipe text.
package ingredients

import "strings"

const (
	startMarker = "ingredients"
	endMarker   = "for "
)

// Extract finds the span between the first "Ingredients" marker and the next
// "For " marker (both case-insensitive), splits it on runs of characters
// that are not ASCII letters or digits, and returns the lower-cased tokens.
// Text with no bounded span yields an empty, non-nil slice.
func Extract(text string) []string {
	span, ok := section(text)
	if !ok {
		return []string{}
	}
	fields := strings.FieldsFunc(span, func(r rune) bool { return !isAlnum(r) })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Join renders ingredients as the query text for the recipe-similarity path.
func Join(ingredients []string) string {
	return strings.ToLower(strings.Join(ingredients, " "))
}

// section returns the text strictly between the start and end markers. The
// span must be at least one byte long.
func section(text string) (string, bool) {
	start := indexFold(text, startMarker, 0)
	if start < 0 {
		return "", false
	}
	from := start + len(startMarker)
	end := indexFold(text, endMarker, from+1)
	if end < 0 {
		return "", false
	}
	return text[from:end], true
}

// indexFold is an ASCII case-insensitive strings.Index starting at from.
func indexFold(s, substr string, from int) int {
	for i := from; i+len(substr) <= len(s); i++ {
		if equalFoldASCII(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}
	return true
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isAlnum(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}
