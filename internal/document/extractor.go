// Package document extracts plain text from recipe documents.
package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"foodrec/internal/domain"
)

// Extractor reads PDF and plain-text documents.
type Extractor struct{}

// NewExtractor returns a document text extractor.
func NewExtractor() *Extractor { return &Extractor{} }

// ExtractText returns the document text with newlines turned into spaces and
// runs of spaces collapsed. Failures wrap domain.ErrDocumentExtraction.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrDocumentExtraction)
	}

	var (
		raw string
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		raw, err = readPDF(path)
	} else {
		raw, err = readPlain(path)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrDocumentExtraction, path, err)
	}
	return Flatten(raw), nil
}

// Flatten replaces newlines with spaces and collapses repeated spaces.
func Flatten(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func readPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readPDF(path string) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck

	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
