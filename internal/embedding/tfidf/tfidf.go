// Package tfidf is an offline embedder for small food catalogs. Terms are
// single words or known multi-word ingredients ("sweet potato"), weighted by
// sublinear term frequency and smoothed inverse document frequency.
package tfidf

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
)

// Embedder vectorizes text over a vocabulary fixed by Prepare. Text with no
// vocabulary term embeds to the zero vector.
type Embedder struct {
	stopwords map[string]struct{}
	phrases   map[string]struct{}
	maxPhrase int
	boost     map[string]float64

	terms    map[string]int
	idf      []float64
	prepared bool
}

// Option customizes an Embedder.
type Option func(*Embedder)

// WithPhrases makes each multi-word phrase a single term, matched greedily
// longest first. Single words are ignored.
func WithPhrases(phrases []string) Option {
	return func(e *Embedder) {
		for _, p := range phrases {
			words := splitWords(p)
			if len(words) < 2 {
				continue
			}
			e.phrases[strings.Join(words, " ")] = struct{}{}
			e.maxPhrase = max(e.maxPhrase, len(words))
		}
	}
}

// WithBoost multiplies the weight of each listed term by factor.
func WithBoost(terms []string, factor float64) Option {
	return func(e *Embedder) {
		if factor <= 0 {
			return
		}
		for _, t := range terms {
			if key := strings.Join(splitWords(t), " "); key != "" {
				e.boost[key] = factor
			}
		}
	}
}

// NewEmbedder creates an unprepared embedder.
func NewEmbedder(opts ...Option) *Embedder {
	e := &Embedder{
		stopwords: foodStopwords(),
		phrases:   map[string]struct{}{},
		boost:     map[string]float64{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare fixes the vocabulary and document frequencies from corpus.
func (e *Embedder) Prepare(_ context.Context, corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF prepare")
	}
	df := map[string]int{}
	for _, doc := range corpus {
		for term := range e.termCounts(doc) {
			df[term]++
		}
	}
	if len(df) == 0 {
		return errors.New("no terms found in corpus")
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	n := float64(len(corpus))
	e.terms = make(map[string]int, len(vocab))
	e.idf = make([]float64, len(vocab))
	for i, term := range vocab {
		e.terms[term] = i
		e.idf[i] = 1 + math.Log((1+n)/(1+float64(df[term])))
	}
	e.prepared = true
	return nil
}

// Dimension is the vocabulary size, zero before Prepare.
func (e *Embedder) Dimension() int { return len(e.idf) }

// Embed returns one unit-length vector per text, or a zero vector when the
// text shares no term with the vocabulary.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if !e.prepared {
		return nil, errors.New("tfidf embedder not prepared")
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *Embedder) vector(text string) []float64 {
	vec := make([]float64, len(e.idf))
	var sumSq float64
	for term, count := range e.termCounts(text) {
		idx, ok := e.terms[term]
		if !ok {
			continue
		}
		w := (1 + math.Log(float64(count))) * e.idf[idx]
		if b, ok := e.boost[term]; ok {
			w *= b
		}
		vec[idx] = w
		sumSq += w * w
	}
	if sumSq == 0 {
		return vec
	}
	norm := math.Sqrt(sumSq)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// termCounts merges known phrases, drops stopwords and counts what is left.
func (e *Embedder) termCounts(text string) map[string]int {
	words := splitWords(text)
	counts := map[string]int{}
	for i := 0; i < len(words); {
		term, n := e.phraseAt(words, i)
		i += n
		if _, stop := e.stopwords[term]; stop {
			continue
		}
		counts[term]++
	}
	return counts
}

// phraseAt returns the longest known phrase starting at words[i], or the
// single word, and how many words it spans.
func (e *Embedder) phraseAt(words []string, i int) (string, int) {
	for n := min(e.maxPhrase, len(words)-i); n >= 2; n-- {
		candidate := strings.Join(words[i:i+n], " ")
		if _, ok := e.phrases[candidate]; ok {
			return candidate, n
		}
	}
	return words[i], 1
}

// splitWords lower-cases text and splits it on anything that is not a letter
// or digit. Apostrophes are dropped so "chef's" matches "chefs".
func splitWords(text string) []string {
	text = strings.ReplaceAll(strings.ToLower(text), "'", "")
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func foodStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "for", "to", "of", "in", "on", "at", "by",
		"with", "as", "is", "are", "was", "be", "it", "this", "that", "from", "so", "into",
		"i", "me", "my", "we", "want", "eat", "some", "something", "like", "would", "please",
		"food", "dish", "meal", "ingredients",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
