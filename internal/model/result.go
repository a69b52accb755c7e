package model

import "time"

// RankedArticle is one personalized entry in the delivered feed.
type RankedArticle struct {
	Article     Article `json:"article"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation,omitempty"`
}

// PersonalizationContext carries per-request reading signals supplied by the
// caller. The core never persists it.
type PersonalizationContext struct {
	SessionDuration time.Duration `json:"session_duration"`
	RecentReads     []string      `json:"recent_reads,omitempty"` // Article IDs
	HourOfDay       int           `json:"hour_of_day"`
	QuickScan       bool          `json:"quick_scan"`
	DeepRead        bool          `json:"deep_read"`
}

// StageTiming records how long one pipeline stage took.
type StageTiming struct {
	Stage    string        `json:"stage"`
	Duration time.Duration `json:"duration"`
	Degraded bool          `json:"degraded,omitempty"` // Stage returned an empty/substitute result
}

// PerformanceMetrics aggregates per-stage timings and quality signals for
// one pipeline invocation.
type PerformanceMetrics struct {
	Stages                []StageTiming `json:"stages"`
	TotalDuration         time.Duration `json:"total_duration"`
	MeanCredibility       float64       `json:"mean_credibility"`
	MeanHallucinationRisk float64       `json:"mean_hallucination_risk"`
	MeanBalanceScore      float64       `json:"mean_balance_score"`
	MeanRelevance         float64       `json:"mean_relevance"` // Mean personalization score
	SelectedModel         string        `json:"selected_model,omitempty"`
	FallbackMode          bool          `json:"fallback_mode"`
}

// TrendingTopic is a topic tag with its frequency across input articles.
type TrendingTopic struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// BreakingNewsAlert surfaces a story cluster in the breaking arc.
type BreakingNewsAlert struct {
	StoryID    string  `json:"story_id"`
	Headline   string  `json:"headline"`
	Importance float64 `json:"importance"`
}

// FactCheckFlag marks an evidence summary whose support looks weak.
type FactCheckFlag struct {
	Query             string          `json:"query"`
	Status            FactCheckStatus `json:"status"`
	HallucinationRisk float64         `json:"hallucination_risk"`
}

// PipelineResult is the single, fully serializable output of one pipeline
// invocation. It is built once and never persisted by the core.
type PipelineResult struct {
	PersonalizedArticles  []RankedArticle           `json:"personalized_articles"`
	NarrativeStories      []NarrativeRecommendation `json:"narrative_stories"`
	PerspectiveFeed       []StoryPerspectiveGroup   `json:"perspective_feed"`
	EvidenceSummaries     []EvidenceSummary         `json:"evidence_summaries"`
	Metrics               PerformanceMetrics        `json:"metrics"`
	TrendingTopics        []TrendingTopic           `json:"trending_topics"`
	BreakingNewsAlerts    []BreakingNewsAlert       `json:"breaking_news_alerts"`
	FactCheckFlags        []FactCheckFlag           `json:"fact_check_flags"`
	FallbackMode          bool                      `json:"fallback_mode"`
	SystemRecommendations []string                  `json:"system_recommendations,omitempty"`
}
