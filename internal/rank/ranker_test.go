package rank

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kakashi3lite/newscurator/internal/model"
)

var rankNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return rankNow }

func rankArticle(id, source string, credibility float64, age time.Duration, topics ...string) model.Article {
	return model.Article{
		ID:          id,
		Title:       "Title " + id,
		Body:        "Body " + id,
		Source:      source,
		PublishedAt: rankNow.Add(-age),
		Credibility: credibility,
		Topics:      topics,
		ReadingTime: 5,
	}
}

func TestRankOrdersByScore(t *testing.T) {
	r := NewHeuristicRanker(0).WithClock(fixedClock)
	articles := []model.Article{
		rankArticle("stale", "wire", 0.5, 96*time.Hour),
		rankArticle("fresh", "wire", 0.9, time.Hour),
	}

	ranked, err := r.Rank(context.Background(), "u1", articles, model.PersonalizationContext{}, nil)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if ranked[0].Article.ID != "fresh" {
		t.Fatalf("expected fresh article first, got %q", ranked[0].Article.ID)
	}
	if ranked[0].Score <= ranked[1].Score {
		t.Fatalf("expected descending scores, got %.3f then %.3f", ranked[0].Score, ranked[1].Score)
	}
}

func TestRankInterestMatch(t *testing.T) {
	r := NewHeuristicRanker(0).WithClock(fixedClock)
	articles := []model.Article{
		rankArticle("plain", "wire", 0.7, time.Hour),
		rankArticle("matched", "wire", 0.7, time.Hour, "Climate"),
	}
	interests := map[string]float64{"climate": 0.9}

	ranked, _ := r.Rank(context.Background(), "u1", articles, model.PersonalizationContext{}, interests)
	if ranked[0].Article.ID != "matched" {
		t.Fatalf("expected interest-matched article first, got %q", ranked[0].Article.ID)
	}
	if !strings.Contains(ranked[0].Explanation, "interest match") {
		t.Fatalf("explanation missing interest match: %q", ranked[0].Explanation)
	}
}

func TestRankRecentReadPenalty(t *testing.T) {
	r := NewHeuristicRanker(0).WithClock(fixedClock)
	articles := []model.Article{
		rankArticle("seen", "wire", 0.8, time.Hour),
		rankArticle("unseen", "wire", 0.8, time.Hour),
	}
	pctx := model.PersonalizationContext{RecentReads: []string{"seen"}}

	ranked, _ := r.Rank(context.Background(), "u1", articles, pctx, nil)
	if ranked[0].Article.ID != "unseen" {
		t.Fatalf("expected unread article first, got %q", ranked[0].Article.ID)
	}
	if !strings.Contains(ranked[1].Explanation, "already read") {
		t.Fatalf("explanation missing read penalty: %q", ranked[1].Explanation)
	}
}

func TestRankQuickScanPrefersShortReads(t *testing.T) {
	r := NewHeuristicRanker(0).WithClock(fixedClock)
	short := rankArticle("short", "wire", 0.7, time.Hour)
	short.ReadingTime = 2
	long := rankArticle("long", "wire", 0.7, time.Hour)
	long.ReadingTime = 12

	ranked, _ := r.Rank(context.Background(), "u1", []model.Article{long, short}, model.PersonalizationContext{QuickScan: true}, nil)
	if ranked[0].Article.ID != "short" {
		t.Fatalf("expected short read first under quick scan, got %q", ranked[0].Article.ID)
	}

	ranked, _ = r.Rank(context.Background(), "u1", []model.Article{long, short}, model.PersonalizationContext{DeepRead: true}, nil)
	if ranked[0].Article.ID != "long" {
		t.Fatalf("expected long read first under deep read, got %q", ranked[0].Article.ID)
	}
}

func TestRankDiversityBoostReorders(t *testing.T) {
	r := NewHeuristicRanker(0.15).WithClock(fixedClock)
	articles := []model.Article{
		rankArticle("a1", "herald", 0.90, time.Hour),
		rankArticle("a2", "herald", 0.85, time.Hour),
		rankArticle("b1", "tribune", 0.80, time.Hour),
	}

	ranked, _ := r.Rank(context.Background(), "u1", articles, model.PersonalizationContext{}, nil)
	// The tribune article is first of its source, so the boost lifts it
	// above the second herald article in the final order.
	got := []string{ranked[0].Article.ID, ranked[1].Article.ID, ranked[2].Article.ID}
	want := []string{"a1", "b1", "a2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
	if !strings.Contains(ranked[1].Explanation, "diversity boost") {
		t.Fatalf("boosted explanation missing marker: %q", ranked[1].Explanation)
	}
}

func TestRankTieBreakByID(t *testing.T) {
	r := NewHeuristicRanker(0).WithClock(fixedClock)
	articles := []model.Article{
		rankArticle("zeta", "wire", 0.7, time.Hour),
		rankArticle("alpha", "wire", 0.7, time.Hour),
	}
	ranked, _ := r.Rank(context.Background(), "u1", articles, model.PersonalizationContext{}, nil)
	if ranked[0].Article.ID != "alpha" {
		t.Fatalf("expected ID tie-break, got %q first", ranked[0].Article.ID)
	}
}

func TestCredibilityFallback(t *testing.T) {
	articles := []model.Article{
		rankArticle("low", "wire", 0.4, time.Hour),
		rankArticle("high", "wire", 0.9, time.Hour),
	}
	ranked := CredibilityFallback(articles)
	if len(ranked) != 2 || ranked[0].Article.ID != "high" {
		t.Fatalf("expected credibility order, got %+v", ranked)
	}
	if ranked[0].Score != 0.9 {
		t.Fatalf("fallback score should be credibility, got %.2f", ranked[0].Score)
	}
	if !strings.Contains(ranked[0].Explanation, "personalization unavailable") {
		t.Fatalf("unexpected explanation %q", ranked[0].Explanation)
	}
}
