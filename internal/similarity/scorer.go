// Package similarity provides deterministic text-similarity and relevance
// scoring over raw article text using a term-frequency vector model.
package similarity

import (
	"sort"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/floats"
)

// TextScorer scores pairwise text similarity and query relevance in [0,1].
// Implementations must be deterministic and side-effect free.
type TextScorer interface {
	Similarity(a, b string) float64
	Relevance(query, text string) float64
}

// Scorer implements TextScorer with cosine similarity over term-frequency
// vectors. Degenerate inputs score 0, never error.
type Scorer struct {
	stopwords map[string]bool
}

// NewScorer creates a Scorer with a small English stopword list.
func NewScorer() *Scorer {
	stop := map[string]bool{}
	for _, w := range []string{
		"a", "an", "the", "and", "or", "but", "of", "in", "on", "at", "to",
		"for", "with", "by", "from", "as", "is", "are", "was", "were", "be",
		"been", "it", "its", "this", "that", "these", "those", "has", "have",
		"had", "not", "no", "will", "would", "can", "could", "their", "they",
	} {
		stop[w] = true
	}
	return &Scorer{stopwords: stop}
}

// Similarity returns the cosine similarity of the term-frequency vectors of
// the two texts. Empty or stopword-only inputs return 0.
func (s *Scorer) Similarity(a, b string) float64 {
	tfA := s.termFrequencies(a)
	tfB := s.termFrequencies(b)
	return cosine(tfA, tfB)
}

// Relevance scores how relevant a text is to a query. The query side uses
// the same vector model, so single-word queries reduce to term coverage.
func (s *Scorer) Relevance(query, text string) float64 {
	tfQ := s.termFrequencies(query)
	tfT := s.termFrequencies(text)
	if len(tfQ) == 0 || len(tfT) == 0 {
		return 0
	}

	// Coverage: fraction of distinct query terms present in the text.
	matched := 0
	for term := range tfQ {
		if tfT[term] > 0 {
			matched++
		}
	}
	coverage := float64(matched) / float64(len(tfQ))

	// Blend coverage with cosine so longer queries reward proportionality.
	return 0.7*coverage + 0.3*cosine(tfQ, tfT)
}

// termFrequencies tokenizes text into lowercase terms and counts them.
func (s *Scorer) termFrequencies(text string) map[string]float64 {
	tf := make(map[string]float64)
	for _, token := range Tokenize(text) {
		if s.stopwords[token] {
			continue
		}
		tf[token]++
	}
	return tf
}

// Tokenize splits text into lowercase word tokens of letters and digits.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// cosine computes cosine similarity between two sparse term-frequency maps
// by projecting them onto a shared vocabulary.
func cosine(tfA, tfB map[string]float64) float64 {
	if len(tfA) == 0 || len(tfB) == 0 {
		return 0
	}

	vocab := make([]string, 0, len(tfA)+len(tfB))
	seen := make(map[string]bool, len(tfA)+len(tfB))
	for term := range tfA {
		if !seen[term] {
			seen[term] = true
			vocab = append(vocab, term)
		}
	}
	for term := range tfB {
		if !seen[term] {
			seen[term] = true
			vocab = append(vocab, term)
		}
	}
	// Sorted vocabulary keeps the summation order, and so the score,
	// reproducible bit for bit.
	sort.Strings(vocab)

	vecA := make([]float64, len(vocab))
	vecB := make([]float64, len(vocab))
	for i, term := range vocab {
		vecA[i] = tfA[term]
		vecB[i] = tfB[term]
	}

	normA := floats.Norm(vecA, 2)
	normB := floats.Norm(vecB, 2)
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := floats.Dot(vecA, vecB) / (normA * normB)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// JaccardStrings computes Jaccard overlap between two string sets.
// Shared by entity-overlap scoring in story clustering.
func JaccardStrings(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, s := range a {
		setA[strings.ToLower(s)] = true
	}
	setB := make(map[string]bool, len(b))
	for _, s := range b {
		setB[strings.ToLower(s)] = true
	}
	intersection := 0
	for s := range setA {
		if setB[s] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
