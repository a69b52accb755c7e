// Package narrative weaves related articles into story clusters by entity
// overlap and temporal proximity, and turns coherent stories into
// recommendations.
package narrative

import (
	"strings"
	"unicode"
)

// ExtractEntities returns capitalized multi-word spans from text, a naive
// approximation of person/organization/location names. Detection is a
// placeholder heuristic; callers treat the result as an unordered set.
func ExtractEntities(text string) []string {
	words := strings.Fields(text)

	seen := make(map[string]bool)
	var entities []string
	var run []string

	flush := func() {
		if len(run) >= 2 {
			span := strings.Join(run, " ")
			key := strings.ToLower(span)
			if !seen[key] {
				seen[key] = true
				entities = append(entities, span)
			}
		}
		run = nil
	}

	for _, word := range words {
		trimmed := strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if isCapitalizedWord(trimmed) {
			run = append(run, trimmed)
			// Sentence-ending punctuation breaks the span.
			if strings.ContainsAny(word, ".!?") {
				flush()
			}
			continue
		}
		flush()
	}
	flush()

	return entities
}

func isCapitalizedWord(word string) bool {
	if len(word) < 2 {
		return false
	}
	runes := []rune(word)
	return unicode.IsUpper(runes[0]) && unicode.IsLower(runes[1])
}

// Location indicator words for the coarse geographic-scope heuristic.
var (
	localIndicators = []string{
		"city council", "mayor", "local residents", "county", "neighborhood",
		"municipal", "downtown",
	}
	internationalIndicators = []string{
		"united nations", "international", "foreign minister", "embassy",
		"across the border", "global", "worldwide", "treaty",
	}
)

// GeographicScope classifies the coarse scope of a set of articles from
// indicator phrases. Defaults to "national".
func GeographicScope(texts []string) string {
	local, international := 0, 0
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, ind := range localIndicators {
			if strings.Contains(lower, ind) {
				local++
			}
		}
		for _, ind := range internationalIndicators {
			if strings.Contains(lower, ind) {
				international++
			}
		}
	}
	switch {
	case international > local && international > 0:
		return "international"
	case local > 0:
		return "local"
	default:
		return "national"
	}
}
