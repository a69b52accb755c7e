package narrative

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/kakashi3lite/newscurator/internal/model"
)

func TestRecommender_CoherenceFloor(t *testing.T) {
	r := NewRecommender(storyConfig())

	stories := []model.StoryCluster{
		{ID: "coherent", CoherenceScore: 0.8, Articles: twoArticles(3, 3)},
		{ID: "incoherent", CoherenceScore: 0.4, Articles: twoArticles(3, 3)},
	}

	recs := r.BuildRecommendations(stories, nil)
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	if recs[0].Story.ID != "coherent" {
		t.Errorf("wrong story promoted: %s", recs[0].Story.ID)
	}
}

func TestRecommender_DepthLevels(t *testing.T) {
	cases := []struct {
		minutes []int
		want    model.DepthLevel
	}{
		{[]int{2, 3}, model.DepthHeadline},
		{[]int{5, 10}, model.DepthSummary},
		{[]int{10, 10}, model.DepthDeepDive},
	}
	r := NewRecommender(storyConfig())

	for _, tc := range cases {
		story := model.StoryCluster{CoherenceScore: 0.9, Articles: twoArticles(tc.minutes[0], tc.minutes[1])}
		recs := r.BuildRecommendations([]model.StoryCluster{story}, nil)
		if len(recs) != 1 {
			t.Fatalf("expected a recommendation for %v", tc.minutes)
		}
		if recs[0].Depth != tc.want {
			t.Errorf("reading time %v: depth %s, want %s", tc.minutes, recs[0].Depth, tc.want)
		}
	}
}

func TestRecommender_InterestAlignment(t *testing.T) {
	r := NewRecommender(storyConfig())

	story := model.StoryCluster{
		Entities: []string{"Central Bank"},
		Articles: []model.Article{
			{ID: "a", Topics: []string{"economy", "inflation"}},
			{ID: "b", Topics: []string{"economy"}},
		},
	}

	// Two matched factors with weights 0.8 and 0.4 -> mean 0.6.
	got := r.ScoreInterestAlignment(story, map[string]float64{
		"economy":      0.8,
		"central bank": 0.4,
		"sports":       1.0,
	})
	if math.Abs(got-0.6) > 1e-9 {
		t.Errorf("alignment = %f, want 0.6", got)
	}

	if got := r.ScoreInterestAlignment(story, nil); got != 0 {
		t.Errorf("expected 0 alignment without interests, got %f", got)
	}

	if got := r.ScoreInterestAlignment(story, map[string]float64{"gardening": 1}); got != 0 {
		t.Errorf("expected 0 alignment with no matches, got %f", got)
	}
}

func TestRecommender_InterestAlignmentDeterministic(t *testing.T) {
	r := NewRecommender(storyConfig())

	interests := make(map[string]float64, 300)
	topics := make([]string, 0, 300)
	for i := 0; i < 300; i++ {
		topic := fmt.Sprintf("topic%03d", i)
		interests[topic] = 1.0 / float64(i+3)
		topics = append(topics, topic)
	}
	story := model.StoryCluster{Articles: []model.Article{{ID: "a", Topics: topics}}}

	first := r.ScoreInterestAlignment(story, interests)
	for i := 0; i < 50; i++ {
		if got := r.ScoreInterestAlignment(story, interests); got != first {
			t.Fatalf("alignment drifted on run %d: %v vs %v", i, got, first)
		}
	}
}

func TestRecommender_ViewpointHints(t *testing.T) {
	r := NewRecommender(storyConfig())

	story := model.StoryCluster{
		CoherenceScore: 0.9,
		Articles: []model.Article{
			{ID: "a", Bias: model.BiasLeft, ReadingTime: 2},
			{ID: "b", Bias: model.BiasRight, ReadingTime: 2},
			{ID: "c", Bias: model.BiasLeft, ReadingTime: 2},
		},
	}

	recs := r.BuildRecommendations([]model.StoryCluster{story}, nil)
	if len(recs) != 1 {
		t.Fatal("expected one recommendation")
	}
	hints := recs[0].RelatedViewpoints
	if len(hints) != 2 {
		t.Fatalf("expected 2 distinct bias hints, got %v", hints)
	}
}

func twoArticles(minutesA, minutesB int) []model.Article {
	now := time.Now().UTC()
	return []model.Article{
		{ID: "a", PublishedAt: now, ReadingTime: minutesA},
		{ID: "b", PublishedAt: now, ReadingTime: minutesB},
	}
}
