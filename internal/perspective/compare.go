package perspective

import (
	"strings"

	"github.com/kakashi3lite/newscurator/internal/evidence"
	"github.com/kakashi3lite/newscurator/internal/model"
	"github.com/kakashi3lite/newscurator/internal/similarity"
)

// Antonym pairs used to flag disputed claims. Placeholder strategy data.
var antonymPairs = [][2]string{
	{"increase", "decrease"},
	{"rise", "fall"},
	{"support", "oppose"},
	{"approve", "reject"},
	{"legal", "illegal"},
	{"safe", "dangerous"},
	{"confirmed", "denied"},
	{"success", "failure"},
	{"won", "lost"},
	{"growth", "decline"},
}

const pointsPerArticle = 2

// Comparer builds structured side-by-side comparisons of two viewpoints.
type Comparer struct {
	maxShared      int
	maxDifferences int
	maxDisputed    int
}

// NewComparer creates a Comparer with list caps from configuration.
func NewComparer(cfg model.PerspectiveConfig) *Comparer {
	maxShared := cfg.MaxSharedFacts
	if maxShared <= 0 {
		maxShared = 3
	}
	maxDifferences := cfg.MaxKeyDifferences
	if maxDifferences <= 0 {
		maxDifferences = 4
	}
	maxDisputed := cfg.MaxDisputedClaims
	if maxDisputed <= 0 {
		maxDisputed = 2
	}
	return &Comparer{
		maxShared:      maxShared,
		maxDifferences: maxDifferences,
		maxDisputed:    maxDisputed,
	}
}

// Compare tests each key point of side A against side B's points: high word
// overlap marks a shared fact, an antonym pairing marks a disputed claim,
// and unmatched points become differences. Each list is truncated to its cap.
func (c *Comparer) Compare(sideA, sideB model.ViewpointCluster) (shared, differences, disputed []string) {
	pointsA := keyPoints(sideA)
	pointsB := keyPoints(sideB)

	for _, pointA := range pointsA {
		matched := false
		for _, pointB := range pointsB {
			if wordOverlap(pointA, pointB) > 0.5 {
				shared = append(shared, pointA)
				matched = true
				break
			}
			if hasAntonymConflict(pointA, pointB) {
				disputed = append(disputed, pointA+" / "+pointB)
				matched = true
				break
			}
		}
		if !matched {
			differences = append(differences, pointA)
		}
	}

	if len(shared) > c.maxShared {
		shared = shared[:c.maxShared]
	}
	if len(differences) > c.maxDifferences {
		differences = differences[:c.maxDifferences]
	}
	if len(disputed) > c.maxDisputed {
		disputed = disputed[:c.maxDisputed]
	}
	return shared, differences, disputed
}

// keyPoints extracts the leading sentences of each article in a viewpoint.
func keyPoints(viewpoint model.ViewpointCluster) []string {
	var points []string
	for _, a := range viewpoint.Articles {
		sentences := evidence.SplitSentences(a.Text())
		if len(sentences) > pointsPerArticle {
			sentences = sentences[:pointsPerArticle]
		}
		points = append(points, sentences...)
	}
	return points
}

// wordOverlap measures the fraction of shared tokens relative to the smaller
// sentence, in [0,1].
func wordOverlap(a, b string) float64 {
	tokensA := similarity.Tokenize(a)
	tokensB := similarity.Tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(tokensA))
	for _, tok := range tokensA {
		setA[tok] = true
	}
	overlap := 0
	seen := make(map[string]bool, len(tokensB))
	for _, tok := range tokensB {
		if setA[tok] && !seen[tok] {
			seen[tok] = true
			overlap++
		}
	}

	smaller := len(setA)
	if distinct := len(distinctTokens(tokensB)); distinct < smaller {
		smaller = distinct
	}
	return float64(overlap) / float64(smaller)
}

func distinctTokens(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return set
}

// hasAntonymConflict reports whether the two sentences sit on opposite ends
// of any known antonym pair.
func hasAntonymConflict(a, b string) bool {
	lowerA := strings.ToLower(a)
	lowerB := strings.ToLower(b)
	for _, pair := range antonymPairs {
		if (strings.Contains(lowerA, pair[0]) && strings.Contains(lowerB, pair[1])) ||
			(strings.Contains(lowerA, pair[1]) && strings.Contains(lowerB, pair[0])) {
			return true
		}
	}
	return false
}
