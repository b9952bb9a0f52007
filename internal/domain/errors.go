package domain

import "errors"

// Collaborator failures. Wrap them with fmt.Errorf("%w: ...") so callers can
// match with errors.Is.
var (
	// ErrEmbeddingService indicates the embedding collaborator failed
	// (network, quota or malformed input).
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrClassificationService indicates the zero-shot classifier failed.
	ErrClassificationService = errors.New("classification service error")

	// ErrIndex indicates a vector collection could not be created, written or queried.
	ErrIndex = errors.New("index error")

	// ErrDocumentExtraction indicates a source document could not be read or parsed.
	ErrDocumentExtraction = errors.New("document extraction error")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
