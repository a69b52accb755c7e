package evidence

import (
	"strings"

	"github.com/kakashi3lite/newscurator/internal/model"
)

// Attribution phrasing that marks a sentence as a reportable claim.
var attributionKeywords = []string{
	"according to", "said", "says", "stated", "announced", "reported",
	"confirmed", "revealed", "claimed", "told", "found that", "showed that",
	"estimated", "warned", "declared",
}

// SplitSentences splits text into sentences with a simple terminator
// heuristic, keeping only sentences of plausible length.
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				appendSentence(&sentences, &current)
			}
		}
	}
	appendSentence(&sentences, &current)

	return sentences
}

func appendSentence(sentences *[]string, current *strings.Builder) {
	sentence := strings.TrimSpace(current.String())
	if len(sentence) >= 30 && len(sentence) <= 500 {
		*sentences = append(*sentences, sentence)
	}
	current.Reset()
}

// extractClaims pulls up to maxPerArticle claim sentences from each article,
// keeping sentences with attribution phrasing and deduplicating across the
// cluster.
func extractClaims(articles []model.Article, maxPerArticle int) []string {
	seen := make(map[string]bool)
	var claims []string

	for _, a := range articles {
		taken := 0
		for _, sentence := range SplitSentences(a.Text()) {
			if taken >= maxPerArticle {
				break
			}
			if !isClaimSentence(sentence) {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(sentence))
			if seen[key] {
				continue
			}
			seen[key] = true
			claims = append(claims, sentence)
			taken++
		}
	}

	return claims
}

func isClaimSentence(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, keyword := range attributionKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
