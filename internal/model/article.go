package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Article represents one validated news item entering the pipeline.
// Articles are value objects: computed once at ingestion, never mutated after.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Source      string    `json:"source"` // Publisher name
	PublishedAt time.Time `json:"published_at"`
	Credibility float64   `json:"credibility"`      // [0,1]
	Topics      []string  `json:"topics,omitempty"` // Unordered tag set
	Summary     string    `json:"summary,omitempty"`
	Bias        BiasLabel `json:"bias,omitempty"`       // Optional editorial lean
	ReadingTime int       `json:"reading_time_minutes"` // Estimated minutes
}

// BiasLabel is an optional coarse editorial-lean annotation on an article.
type BiasLabel string

const (
	BiasLeft   BiasLabel = "left"
	BiasCenter BiasLabel = "center"
	BiasRight  BiasLabel = "right"
)

// Rating maps a bias label onto a signed scale: -1 (left) .. +1 (right).
// Unlabeled articles rate as neutral.
func (b BiasLabel) Rating() float64 {
	switch b {
	case BiasLeft:
		return -1
	case BiasRight:
		return 1
	default:
		return 0
	}
}

// NewArticle builds a validated Article, filling derived defaults synchronously.
// A zero reading time is estimated from body length (~200 words per minute).
func NewArticle(id, title, body, source string, publishedAt time.Time, credibility float64) (Article, error) {
	if id == "" {
		return Article{}, fmt.Errorf("article: empty id")
	}
	if credibility < 0 || credibility > 1 {
		return Article{}, fmt.Errorf("article %s: credibility %.2f out of [0,1]", id, credibility)
	}
	a := Article{
		ID:          id,
		Title:       title,
		Body:        body,
		Source:      source,
		PublishedAt: publishedAt,
		Credibility: credibility,
	}
	a.ReadingTime = estimateReadingTime(body)
	return a, nil
}

func estimateReadingTime(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// Eligible reports whether the article meets the ingestion floor for clustering.
func (a Article) Eligible(minBodyLength int, minCredibility float64) bool {
	return len(a.Body) >= minBodyLength && a.Credibility >= minCredibility
}

// Text returns the title and body joined, the form all scorers operate on.
func (a Article) Text() string {
	if a.Title == "" {
		return a.Body
	}
	return a.Title + ". " + a.Body
}

// FilterEligible returns only articles passing the ingestion floor.
// Ineligible articles are filtered, not treated as failures.
func FilterEligible(articles []Article, minBodyLength int, minCredibility float64) []Article {
	eligible := make([]Article, 0, len(articles))
	for _, a := range articles {
		if a.Eligible(minBodyLength, minCredibility) {
			eligible = append(eligible, a)
		}
	}
	return eligible
}

// SortByCredibility returns a copy sorted by credibility descending,
// ties broken by article ID for stable output.
func SortByCredibility(articles []Article) []Article {
	sorted := make([]Article, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Credibility != sorted[j].Credibility {
			return sorted[i].Credibility > sorted[j].Credibility
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
