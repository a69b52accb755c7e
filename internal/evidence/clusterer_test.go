package evidence

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/kakashi3lite/newscurator/internal/model"
	"github.com/kakashi3lite/newscurator/internal/similarity"
)

func testConfig() model.EvidenceConfig {
	return model.DefaultConfig().Evidence
}

func makeArticle(id, body string, published time.Time) model.Article {
	return model.Article{
		ID:          id,
		Title:       "",
		Body:        body,
		Source:      "source-" + id,
		PublishedAt: published,
		Credibility: 0.9,
		ReadingTime: 3,
	}
}

func TestClusterer_Partition(t *testing.T) {
	c := NewClusterer(similarity.NewScorer(), testConfig())

	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	articles := []model.Article{
		makeArticle("a1", "The senate voted to approve the new budget bill on Friday afternoon", day),
		makeArticle("a2", "The senate voted to approve the new budget bill late on Friday", day),
		makeArticle("a3", "A rare comet will be visible from the northern hemisphere next week", day),
		makeArticle("a4", "Astronomers say a rare comet will be visible from the northern hemisphere", day),
		makeArticle("a5", "Completely unrelated municipal water infrastructure tender announcement today", day),
	}

	clusters := c.ClusterArticles(articles)

	seen := make(map[string]int)
	for _, cluster := range clusters {
		if len(cluster.Articles) == 0 {
			t.Fatal("empty cluster produced")
		}
		for _, a := range cluster.Articles {
			seen[a.ID]++
		}
	}
	for _, a := range articles {
		if seen[a.ID] != 1 {
			t.Errorf("article %s appears %d times, want exactly 1", a.ID, seen[a.ID])
		}
	}
}

func TestClusterer_SharedVocabularyJoinsOneCluster(t *testing.T) {
	c := NewClusterer(similarity.NewScorer(), testConfig())

	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	body := "Officials confirmed the dam failure flooded three villages downstream overnight"
	articles := []model.Article{
		makeArticle("b1", body+" according to the ministry", day),
		makeArticle("b2", body+" reports said", day.Add(2*time.Hour)),
		makeArticle("b3", body, day.Add(4*time.Hour)),
	}

	clusters := c.ClusterArticles(articles)
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster for near-identical articles, got %d", len(clusters))
	}

	scored := c.ScoreClusters("dam failure", clusters)
	if scored[0].ConsistencyScore <= 0.6 {
		t.Errorf("expected consistency > 0.6, got %f", scored[0].ConsistencyScore)
	}
}

func TestClusterer_ClusterSizeCap(t *testing.T) {
	cfg := testConfig()
	cfg.MaxClusterSize = 3
	c := NewClusterer(similarity.NewScorer(), cfg)

	day := time.Now().UTC()
	body := "Identical text about the exact same event repeated across many outlets"
	var articles []model.Article
	for i := 0; i < 7; i++ {
		articles = append(articles, makeArticle(fmt.Sprintf("c%d", i), body, day))
	}

	clusters := c.ClusterArticles(articles)
	total := 0
	for _, cluster := range clusters {
		if len(cluster.Articles) > 3 {
			t.Errorf("cluster exceeds size cap: %d", len(cluster.Articles))
		}
		total += len(cluster.Articles)
	}
	if total != 7 {
		t.Errorf("expected all 7 articles clustered, got %d", total)
	}
}

func TestClusterer_SingletonConsistency(t *testing.T) {
	c := NewClusterer(similarity.NewScorer(), testConfig())

	articles := []model.Article{
		makeArticle("s1", "A lone report about an obscure regional chess tournament result", time.Now().UTC()),
	}
	scored := c.ScoreClusters("chess", c.ClusterArticles(articles))
	if len(scored) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(scored))
	}
	if scored[0].ConsistencyScore != 1.0 {
		t.Errorf("singleton consistency must be 1.0, got %f", scored[0].ConsistencyScore)
	}
}

func TestClusterer_ConfidenceFormula(t *testing.T) {
	c := NewClusterer(similarity.NewScorer(), testConfig())

	day := time.Now().UTC()
	articles := []model.Article{
		makeArticle("f1", "The central bank raised interest rates by half a point on Wednesday", day),
		makeArticle("f2", "The central bank raised interest rates by half a point, surprising markets", day),
	}
	scored := c.ScoreClusters("interest rates", c.ClusterArticles(articles))

	for _, cluster := range scored {
		want := 0.6*cluster.ConsistencyScore + 0.4*cluster.RelevanceScore
		if math.Abs(cluster.ConfidenceScore-want) > 1e-9 {
			t.Errorf("confidence %f != 0.6*consistency + 0.4*relevance = %f", cluster.ConfidenceScore, want)
		}
		if cluster.ConfidenceScore < 0 || cluster.ConfidenceScore > 1 {
			t.Errorf("confidence out of [0,1]: %f", cluster.ConfidenceScore)
		}
	}
}

func TestClusterer_Rerank(t *testing.T) {
	c := NewClusterer(similarity.NewScorer(), testConfig())

	clusters := []model.EvidenceCluster{
		{ID: "low", ConfidenceScore: 0.3, Articles: make([]model.Article, 1)},
		{ID: "high", ConfidenceScore: 0.9, Articles: make([]model.Article, 1)},
		{ID: "tie-small", ConfidenceScore: 0.5, Articles: make([]model.Article, 1)},
		{ID: "tie-big", ConfidenceScore: 0.5, Articles: make([]model.Article, 3)},
	}

	ranked := c.Rerank(clusters)
	wantOrder := []string{"high", "tie-big", "tie-small", "low"}
	for i, want := range wantOrder {
		if ranked[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, ranked[i].ID)
		}
	}

	// Input order untouched.
	if clusters[0].ID != "low" {
		t.Error("Rerank mutated its input")
	}
}

func TestClusterer_EmptyInput(t *testing.T) {
	c := NewClusterer(similarity.NewScorer(), testConfig())
	clusters := c.ClusterArticles(nil)
	if len(clusters) != 0 {
		t.Errorf("expected no clusters for empty input, got %d", len(clusters))
	}
}

func TestClusterer_DeterministicIDs(t *testing.T) {
	c := NewClusterer(similarity.NewScorer(), testConfig())

	day := time.Now().UTC()
	articles := []model.Article{
		makeArticle("d1", "First body about a specific topic entirely its own", day),
		makeArticle("d2", "Second body about another disjoint subject matter", day),
	}

	first := c.ClusterArticles(articles)
	second := c.ClusterArticles(articles)
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("cluster IDs differ across identical runs: %s vs %s", first[i].ID, second[i].ID)
		}
	}
}
