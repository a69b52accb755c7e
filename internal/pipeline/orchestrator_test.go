package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kakashi3lite/newscurator/internal/model"
)

var pipelineNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return pipelineNow }

func testOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	cfg := model.DefaultConfig()
	return NewOrchestrator(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))).WithClock(fixedClock)
}

const entityLead = "Harbor Bridge Commission officials met near West Harbor District. "

func storyFixture() []model.Article {
	liberal := entityLead + "Advocates for social justice said the reform addresses wealth inequality according to new data from the research institute."
	conservative := entityLead + "Supporters of fiscal responsibility and the free market said the reform rejects new spending, according to official records."

	published := pipelineNow.Add(-2 * time.Hour)
	mk := func(id, title, body, source string) model.Article {
		return model.Article{
			ID:          id,
			Title:       title,
			Body:        body,
			Source:      source,
			PublishedAt: published,
			Credibility: 0.9,
			Topics:      []string{"infrastructure"},
			ReadingTime: 3,
		}
	}
	return []model.Article{
		mk("l1", "Bridge reform hailed as overdue", liberal, "herald"),
		mk("l2", "Reform advocates cheer bridge vote", liberal, "observer"),
		mk("c1", "Bridge spending draws criticism", conservative, "tribune"),
		mk("c2", "Critics question bridge reform cost", conservative, "ledger"),
	}
}

// mockRanker fails or panics on demand.
type mockRanker struct {
	err      error
	panicMsg string
}

func (m *mockRanker) Rank(_ context.Context, _ string, articles []model.Article, _ model.PersonalizationContext, _ map[string]float64) ([]model.RankedArticle, error) {
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.err != nil {
		return nil, m.err
	}
	ranked := make([]model.RankedArticle, len(articles))
	for i, a := range articles {
		ranked[i] = model.RankedArticle{Article: a, Score: 0.5}
	}
	return ranked, nil
}

type mockAdvisor struct {
	model string
	err   error
}

func (m *mockAdvisor) SelectModel(_ context.Context, _ string) (string, error) {
	return m.model, m.err
}

func TestCurateEmptyInput(t *testing.T) {
	o := testOrchestrator(t)
	result := o.Curate(context.Background(), Request{UserID: "u1"})

	if result.FallbackMode {
		t.Error("empty input must not trigger fallback mode")
	}
	if len(result.PersonalizedArticles) != 0 {
		t.Errorf("expected no personalized articles, got %d", len(result.PersonalizedArticles))
	}
	if len(result.NarrativeStories) != 0 || len(result.PerspectiveFeed) != 0 {
		t.Error("expected empty narrative and perspective collections")
	}
	if len(result.EvidenceSummaries) != 1 {
		t.Fatalf("expected the empty evidence summary, got %d", len(result.EvidenceSummaries))
	}
	if got := result.EvidenceSummaries[0].HallucinationRisk; got != 1.0 {
		t.Errorf("hallucination risk = %.2f, want 1.0", got)
	}
	if len(result.Metrics.Stages) == 0 {
		t.Error("expected per-stage timings even on empty input")
	}
}

func TestCurateFullPipeline(t *testing.T) {
	o := testOrchestrator(t)
	result := o.Curate(context.Background(), Request{
		Articles:  storyFixture(),
		UserID:    "u1",
		Interests: map[string]float64{"infrastructure": 0.8},
	})

	if result.FallbackMode {
		t.Fatal("healthy run must not set fallback mode")
	}
	if len(result.PersonalizedArticles) != 4 {
		t.Errorf("personalized articles = %d, want 4", len(result.PersonalizedArticles))
	}
	if len(result.NarrativeStories) != 1 {
		t.Fatalf("narrative stories = %d, want 1", len(result.NarrativeStories))
	}
	story := result.NarrativeStories[0].Story
	if len(story.Articles) != 4 {
		t.Errorf("story size = %d, want 4", len(story.Articles))
	}
	if story.Arc != model.ArcBreaking {
		t.Errorf("arc = %s, want breaking", story.Arc)
	}

	if len(result.PerspectiveFeed) != 1 {
		t.Fatalf("perspective feed = %d, want 1", len(result.PerspectiveFeed))
	}
	if balance := result.PerspectiveFeed[0].BalanceScore; balance < 0.95 {
		t.Errorf("balance = %.3f, want >= 0.95 for evenly split story", balance)
	}

	if len(result.EvidenceSummaries) != 1 || result.EvidenceSummaries[0].Query != "infrastructure" {
		t.Errorf("expected one summary for the infrastructure topic, got %+v", result.EvidenceSummaries)
	}
	if len(result.TrendingTopics) != 1 || result.TrendingTopics[0].Count != 4 {
		t.Errorf("trending topics = %+v", result.TrendingTopics)
	}
	if len(result.BreakingNewsAlerts) != 1 {
		t.Errorf("breaking alerts = %d, want 1", len(result.BreakingNewsAlerts))
	}
	if result.Metrics.SelectedModel == "" {
		t.Error("expected advisory model selection in metrics")
	}
	if math.Abs(result.Metrics.MeanCredibility-0.9) > 1e-9 {
		t.Errorf("mean credibility = %.2f, want 0.90", result.Metrics.MeanCredibility)
	}
}

func TestCurateTargetWarnings(t *testing.T) {
	o := testOrchestrator(t)
	result := o.Curate(context.Background(), Request{Articles: storyFixture(), UserID: "u1"})

	// Mean credibility 0.90 misses the 0.95 target.
	found := false
	for _, w := range result.SystemRecommendations {
		if strings.Contains(w, "credibility") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected credibility target warning, got %v", result.SystemRecommendations)
	}
	if result.FallbackMode {
		t.Error("target misses must never trigger fallback")
	}
}

func TestCurateRankerFailureDegradesLocally(t *testing.T) {
	o := testOrchestrator(t).WithRanker(&mockRanker{err: errors.New("ranker offline")})
	result := o.Curate(context.Background(), Request{Articles: storyFixture(), UserID: "u1"})

	if result.FallbackMode {
		t.Fatal("ranker failure is stage-local, not pipeline fallback")
	}
	if len(result.PersonalizedArticles) != 4 {
		t.Fatalf("expected credibility-sorted substitute, got %d articles", len(result.PersonalizedArticles))
	}
	for i := 1; i < len(result.PersonalizedArticles); i++ {
		if result.PersonalizedArticles[i].Score > result.PersonalizedArticles[i-1].Score {
			t.Fatal("substitute list must be credibility-sorted")
		}
	}

	degraded := false
	for _, s := range result.Metrics.Stages {
		if s.Stage == "personalize" && s.Degraded {
			degraded = true
		}
	}
	if !degraded {
		t.Error("personalize stage must be marked degraded")
	}
}

func TestCuratePanicTriggersFallback(t *testing.T) {
	o := testOrchestrator(t).WithRanker(&mockRanker{panicMsg: "boom"})
	articles := storyFixture()
	result := o.Curate(context.Background(), Request{Articles: articles, UserID: "u1"})

	if !result.FallbackMode {
		t.Fatal("expected fallback mode after panic")
	}
	if len(result.PersonalizedArticles) != len(articles) {
		t.Errorf("fallback must rank all raw articles, got %d", len(result.PersonalizedArticles))
	}
	if len(result.NarrativeStories) != 0 || len(result.PerspectiveFeed) != 0 || len(result.EvidenceSummaries) != 0 {
		t.Error("fallback result must carry empty analysis collections")
	}
	if len(result.SystemRecommendations) == 0 || !strings.Contains(result.SystemRecommendations[0], "degraded operation") {
		t.Errorf("expected degraded-operation note, got %v", result.SystemRecommendations)
	}
}

func TestCurateAdvisorErrorIsAdvisoryOnly(t *testing.T) {
	o := testOrchestrator(t).WithAdvisor(&mockAdvisor{err: errors.New("advisor down")})
	result := o.Curate(context.Background(), Request{Articles: storyFixture(), UserID: "u1"})

	if result.FallbackMode {
		t.Fatal("advisor failure must not affect the pipeline")
	}
	if result.Metrics.SelectedModel != "" {
		t.Errorf("selected model should be empty on advisor failure, got %q", result.Metrics.SelectedModel)
	}
	if len(result.PersonalizedArticles) == 0 {
		t.Error("data stages must run regardless of the advisor")
	}
}

func TestCurateDeterminism(t *testing.T) {
	req := Request{
		Articles:  storyFixture(),
		UserID:    "u1",
		Context:   model.PersonalizationContext{RecentReads: []string{"l1"}},
		Interests: map[string]float64{"infrastructure": 0.8},
	}

	first := testOrchestrator(t).Curate(context.Background(), req)
	second := testOrchestrator(t).Curate(context.Background(), req)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs with a fixed clock must produce identical results")
	}
}
