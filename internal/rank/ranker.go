// Package rank implements the personalization ranker collaborator and the
// credibility-sorted degradation the orchestrator uses when ranking fails.
package rank

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/kakashi3lite/newscurator/internal/model"
)

// Ranker is the personalization collaborator contract.
type Ranker interface {
	Rank(ctx context.Context, userID string, articles []model.Article, pctx model.PersonalizationContext, interests map[string]float64) ([]model.RankedArticle, error)
}

// Scoring weights for the heuristic ranker.
const (
	credibilityWeight = 0.4
	interestWeight    = 0.3
	recencyWeight     = 0.3

	recentReadPenalty = 0.2
	readingFitBonus   = 0.1
	recencyHalfLife   = 24 * time.Hour
)

// HeuristicRanker scores articles from credibility, interest match, recency
// and reading-mode fit, then applies a source-diversity boost. The boost is
// always reflected in the final order: ranking re-sorts after boosting.
type HeuristicRanker struct {
	diversityBoost float64
	nowFunc        func() time.Time
}

// NewHeuristicRanker creates a ranker with the given diversity boost.
func NewHeuristicRanker(diversityBoost float64) *HeuristicRanker {
	if diversityBoost < 0 {
		diversityBoost = 0
	}
	return &HeuristicRanker{
		diversityBoost: diversityBoost,
		nowFunc:        time.Now,
	}
}

// WithClock overrides the ranker's clock. Used by the orchestrator so one
// invocation scores against a single timestamp.
func (r *HeuristicRanker) WithClock(now func() time.Time) *HeuristicRanker {
	r.nowFunc = now
	return r
}

// Rank scores and orders articles for the user. Never returns an error: the
// heuristic has no external dependencies.
func (r *HeuristicRanker) Rank(_ context.Context, _ string, articles []model.Article, pctx model.PersonalizationContext, interests map[string]float64) ([]model.RankedArticle, error) {
	now := r.nowFunc()
	recentReads := make(map[string]bool, len(pctx.RecentReads))
	for _, id := range pctx.RecentReads {
		recentReads[id] = true
	}

	ranked := make([]model.RankedArticle, len(articles))
	for i, a := range articles {
		score, explanation := r.score(a, pctx, interests, recentReads, now)
		ranked[i] = model.RankedArticle{
			Article:     a,
			Score:       score,
			Explanation: explanation,
		}
	}

	sortRanked(ranked)

	// First article seen per source gets the diversity boost, then the
	// boosted scores are re-sorted so the boost affects the final order.
	if r.diversityBoost > 0 {
		seenSources := make(map[string]bool)
		for i := range ranked {
			source := ranked[i].Article.Source
			if source == "" || seenSources[source] {
				continue
			}
			seenSources[source] = true
			ranked[i].Score += r.diversityBoost
			ranked[i].Explanation += "; diversity boost"
		}
		sortRanked(ranked)
	}

	return ranked, nil
}

func (r *HeuristicRanker) score(a model.Article, pctx model.PersonalizationContext, interests map[string]float64, recentReads map[string]bool, now time.Time) (float64, string) {
	interest := interestMatch(a, interests)

	age := now.Sub(a.PublishedAt)
	if age < 0 {
		age = 0
	}
	recency := math.Pow(0.5, age.Hours()/recencyHalfLife.Hours())

	score := credibilityWeight*a.Credibility + interestWeight*interest + recencyWeight*recency
	var reasons []string
	reasons = append(reasons, fmt.Sprintf("credibility %.2f", a.Credibility))
	if interest > 0 {
		reasons = append(reasons, fmt.Sprintf("interest match %.2f", interest))
	}

	if recentReads[a.ID] {
		score -= recentReadPenalty
		reasons = append(reasons, "already read")
	}

	if pctx.QuickScan && a.ReadingTime <= 3 {
		score += readingFitBonus
		reasons = append(reasons, "quick read")
	}
	if pctx.DeepRead && a.ReadingTime > 10 {
		score += readingFitBonus
		reasons = append(reasons, "in-depth")
	}

	if score < 0 {
		score = 0
	}
	return score, strings.Join(reasons, "; ")
}

func interestMatch(a model.Article, interests map[string]float64) float64 {
	if len(interests) == 0 {
		return 0
	}
	best := 0.0
	for _, topic := range a.Topics {
		if weight, ok := interests[strings.ToLower(topic)]; ok && weight > best {
			best = weight
		}
	}
	return best
}

func sortRanked(ranked []model.RankedArticle) {
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Article.ID < ranked[j].Article.ID
	})
}

// CredibilityFallback builds the degraded ranking used when the
// personalization collaborator fails: articles sorted by credibility.
func CredibilityFallback(articles []model.Article) []model.RankedArticle {
	sorted := model.SortByCredibility(articles)
	ranked := make([]model.RankedArticle, len(sorted))
	for i, a := range sorted {
		ranked[i] = model.RankedArticle{
			Article:     a,
			Score:       a.Credibility,
			Explanation: "credibility-sorted (personalization unavailable)",
		}
	}
	return ranked
}
