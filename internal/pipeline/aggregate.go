package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kakashi3lite/newscurator/internal/model"
)

const (
	maxTrendingTopics = 10
	flagRiskThreshold = 0.5
)

// aggregate folds the stage outputs into the final result, collects the
// advisory model selection, and records target misses as warnings.
func (o *Orchestrator) aggregate(
	start time.Time,
	articles []model.Article,
	summaries []model.EvidenceSummary,
	stories []model.StoryCluster,
	recommendations []model.NarrativeRecommendation,
	groups []model.StoryPerspectiveGroup,
	ranked []model.RankedArticle,
	modelCh <-chan modelSelection,
	metrics *model.PerformanceMetrics,
) model.PipelineResult {
	var trending []model.TrendingTopic
	var alerts []model.BreakingNewsAlert
	var flags []model.FactCheckFlag

	o.timeStage(metrics, "aggregate", func() bool {
		trending = trendingTopics(articles)
		alerts = breakingAlerts(stories)
		flags = factCheckFlags(summaries)

		metrics.MeanCredibility = meanCredibility(articles)
		metrics.MeanHallucinationRisk = meanRisk(summaries)
		metrics.MeanBalanceScore = meanBalance(groups)
		metrics.MeanRelevance = meanScore(ranked)
		return false
	})

	// The advisory goroutine always closes the channel within its bounded
	// timeout, so this receive cannot hang.
	if selection, ok := <-modelCh; ok {
		metrics.SelectedModel = selection.model
		metrics.Stages = append(metrics.Stages, selection.timing)
	}

	metrics.TotalDuration = o.clock().Sub(start)
	warnings := o.targetWarnings(*metrics, len(articles))

	if recommendations == nil {
		recommendations = []model.NarrativeRecommendation{}
	}
	if groups == nil {
		groups = []model.StoryPerspectiveGroup{}
	}
	if ranked == nil {
		ranked = []model.RankedArticle{}
	}

	return model.PipelineResult{
		PersonalizedArticles:  ranked,
		NarrativeStories:      recommendations,
		PerspectiveFeed:       groups,
		EvidenceSummaries:     summaries,
		Metrics:               *metrics,
		TrendingTopics:        trending,
		BreakingNewsAlerts:    alerts,
		FactCheckFlags:        flags,
		FallbackMode:          false,
		SystemRecommendations: warnings,
	}
}

// topicQueries returns the distinct topics across articles, sorted. Articles
// without topics fall under the empty query so evidence is still summarized.
func topicQueries(articles []model.Article) []string {
	seen := make(map[string]bool)
	for _, a := range articles {
		for _, topic := range a.Topics {
			seen[strings.ToLower(topic)] = true
		}
	}
	if len(seen) == 0 {
		return []string{""}
	}

	queries := make([]string, 0, len(seen))
	for topic := range seen {
		queries = append(queries, topic)
	}
	sort.Strings(queries)
	return queries
}

// trendingTopics counts topic tags, most frequent first.
func trendingTopics(articles []model.Article) []model.TrendingTopic {
	counts := make(map[string]int)
	for _, a := range articles {
		for _, topic := range a.Topics {
			counts[strings.ToLower(topic)]++
		}
	}

	trending := make([]model.TrendingTopic, 0, len(counts))
	for topic, count := range counts {
		trending = append(trending, model.TrendingTopic{Topic: topic, Count: count})
	}
	sort.Slice(trending, func(i, j int) bool {
		if trending[i].Count != trending[j].Count {
			return trending[i].Count > trending[j].Count
		}
		return trending[i].Topic < trending[j].Topic
	})
	if len(trending) > maxTrendingTopics {
		trending = trending[:maxTrendingTopics]
	}
	if trending == nil {
		trending = []model.TrendingTopic{}
	}
	return trending
}

// breakingAlerts surfaces stories still in the breaking arc, most important
// first.
func breakingAlerts(stories []model.StoryCluster) []model.BreakingNewsAlert {
	alerts := []model.BreakingNewsAlert{}
	for _, story := range stories {
		if story.Arc != model.ArcBreaking || len(story.Articles) == 0 {
			continue
		}
		alerts = append(alerts, model.BreakingNewsAlert{
			StoryID:    story.ID,
			Headline:   story.Articles[0].Title,
			Importance: story.ImportanceScore,
		})
	}
	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].Importance != alerts[j].Importance {
			return alerts[i].Importance > alerts[j].Importance
		}
		return alerts[i].StoryID < alerts[j].StoryID
	})
	return alerts
}

// factCheckFlags marks unverified summaries whose support looks weak.
func factCheckFlags(summaries []model.EvidenceSummary) []model.FactCheckFlag {
	flags := []model.FactCheckFlag{}
	for _, s := range summaries {
		if s.FactCheckStatus != model.FactCheckUnverified || s.HallucinationRisk < flagRiskThreshold {
			continue
		}
		flags = append(flags, model.FactCheckFlag{
			Query:             s.Query,
			Status:            s.FactCheckStatus,
			HallucinationRisk: s.HallucinationRisk,
		})
	}
	return flags
}

// targetWarnings compares aggregated metrics against configured targets.
// Misses become warnings, never failures. Quality targets are only checked
// when there were articles to measure.
func (o *Orchestrator) targetWarnings(metrics model.PerformanceMetrics, articleCount int) []string {
	targets := o.config.Targets
	var warnings []string

	if targets.TotalTime > 0 && metrics.TotalDuration > targets.TotalTime {
		warnings = append(warnings, fmt.Sprintf(
			"pipeline took %s, above the %s target", metrics.TotalDuration, targets.TotalTime))
	}
	if articleCount > 0 && metrics.MeanCredibility < targets.MeanCredibility {
		warnings = append(warnings, fmt.Sprintf(
			"mean credibility %.2f below the %.2f target", metrics.MeanCredibility, targets.MeanCredibility))
	}
	if articleCount > 0 && metrics.MeanRelevance < targets.MeanRelevance {
		warnings = append(warnings, fmt.Sprintf(
			"mean personalization relevance %.2f below the %.2f target", metrics.MeanRelevance, targets.MeanRelevance))
	}
	return warnings
}

func meanCredibility(articles []model.Article) float64 {
	if len(articles) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range articles {
		sum += a.Credibility
	}
	return sum / float64(len(articles))
}

func meanRisk(summaries []model.EvidenceSummary) float64 {
	if len(summaries) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range summaries {
		sum += s.HallucinationRisk
	}
	return sum / float64(len(summaries))
}

func meanBalance(groups []model.StoryPerspectiveGroup) float64 {
	if len(groups) == 0 {
		return 0
	}
	sum := 0.0
	for _, g := range groups {
		sum += g.BalanceScore
	}
	return sum / float64(len(groups))
}

func meanScore(ranked []model.RankedArticle) float64 {
	if len(ranked) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range ranked {
		sum += r.Score
	}
	return sum / float64(len(ranked))
}
