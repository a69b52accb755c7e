package narrative

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kakashi3lite/newscurator/internal/model"
)

// Recommender promotes coherent story clusters into narrative
// recommendations aligned with a user's interests.
type Recommender struct {
	minCoherence float64
}

// NewRecommender creates a Recommender from configuration.
func NewRecommender(cfg model.NarrativeConfig) *Recommender {
	minCoherence := cfg.MinCoherence
	if minCoherence <= 0 || minCoherence > 1 {
		minCoherence = 0.6
	}
	return &Recommender{minCoherence: minCoherence}
}

// ScoreInterestAlignment averages matched interest weights over the story's
// entities and topics. Returns 0 when no interests are supplied or nothing
// matches.
func (r *Recommender) ScoreInterestAlignment(story model.StoryCluster, interests map[string]float64) float64 {
	if len(interests) == 0 {
		return 0
	}

	factors := make(map[string]bool)
	for _, e := range story.Entities {
		factors[strings.ToLower(e)] = true
	}
	for _, a := range story.Articles {
		for _, topic := range a.Topics {
			factors[strings.ToLower(topic)] = true
		}
	}

	// Sorted key order keeps the sum reproducible bit for bit.
	keys := make([]string, 0, len(interests))
	for interest := range interests {
		keys = append(keys, interest)
	}
	sort.Strings(keys)

	sum := 0.0
	matched := 0
	for _, interest := range keys {
		if factors[strings.ToLower(interest)] {
			sum += interests[interest]
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	return sum / float64(matched)
}

// BuildRecommendations turns scored stories into recommendations. Stories
// below the coherence floor are dropped silently.
func (r *Recommender) BuildRecommendations(stories []model.StoryCluster, interests map[string]float64) []model.NarrativeRecommendation {
	recs := make([]model.NarrativeRecommendation, 0, len(stories))
	for _, story := range stories {
		if story.CoherenceScore < r.minCoherence {
			continue
		}
		recs = append(recs, model.NarrativeRecommendation{
			Story:             story,
			Reason:            recommendationReason(story),
			InterestAlignment: r.ScoreInterestAlignment(story, interests),
			Depth:             depthLevel(story.TotalReadingTime()),
			RelatedViewpoints: viewpointHints(story),
		})
	}
	return recs
}

// depthLevel maps total reading time onto a recommendation depth.
func depthLevel(totalMinutes int) model.DepthLevel {
	switch {
	case totalMinutes <= 5:
		return model.DepthHeadline
	case totalMinutes <= 15:
		return model.DepthSummary
	default:
		return model.DepthDeepDive
	}
}

func recommendationReason(story model.StoryCluster) string {
	lead := ""
	if len(story.Entities) > 0 {
		lead = story.Entities[0]
	} else if len(story.Articles) > 0 {
		lead = story.Articles[0].Title
	}
	return fmt.Sprintf("%s story with %d articles about %s", story.Arc, len(story.Articles), lead)
}

// viewpointHints lists the distinct bias labels present, falling back to
// distinct sources when nothing is labeled.
func viewpointHints(story model.StoryCluster) []string {
	seen := make(map[string]bool)
	var hints []string
	for _, a := range story.Articles {
		if a.Bias == "" {
			continue
		}
		label := string(a.Bias)
		if !seen[label] {
			seen[label] = true
			hints = append(hints, label)
		}
	}
	if len(hints) > 0 {
		return hints
	}
	for _, a := range story.Articles {
		if a.Source == "" || seen[a.Source] {
			continue
		}
		seen[a.Source] = true
		hints = append(hints, a.Source)
	}
	if len(hints) > 3 {
		hints = hints[:3]
	}
	return hints
}
