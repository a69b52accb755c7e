package model

// StoryArc is the coarse lifecycle stage of a story cluster.
type StoryArc string

const (
	ArcBreaking   StoryArc = "breaking"   // All articles same day
	ArcDeveloping StoryArc = "developing" // Span <= 2 days
	ArcOngoing    StoryArc = "ongoing"    // Span <= 7 days
	ArcConclusion StoryArc = "conclusion" // Older spans
)

// StoryCluster groups two or more articles judged to describe the same
// unfolding event via shared entities and temporal proximity. Clusters are
// created fresh per pipeline run and never mutated after scoring.
type StoryCluster struct {
	ID              string    `json:"id"`
	Articles        []Article `json:"articles"` // Ordered by publish time, oldest first
	Entities        []string  `json:"entities,omitempty"`
	GeographicScope string    `json:"geographic_scope,omitempty"`
	Arc             StoryArc  `json:"arc"`
	CoherenceScore  float64   `json:"coherence_score"`
	ImportanceScore float64   `json:"importance_score"`
}

// TotalReadingTime sums the reading-time estimates of all member articles.
func (c StoryCluster) TotalReadingTime() int {
	total := 0
	for _, a := range c.Articles {
		total += a.ReadingTime
	}
	return total
}

// MeanCredibility averages member credibility; 0 for an empty cluster.
func (c StoryCluster) MeanCredibility() float64 {
	if len(c.Articles) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range c.Articles {
		sum += a.Credibility
	}
	return sum / float64(len(c.Articles))
}

// DepthLevel indicates how much reading a recommendation asks of the user.
type DepthLevel string

const (
	DepthHeadline DepthLevel = "headline"  // <= 5 minutes total
	DepthSummary  DepthLevel = "summary"   // <= 15 minutes total
	DepthDeepDive DepthLevel = "deep_dive" // Longer
)

// NarrativeRecommendation wraps a coherent story cluster with the rationale
// for surfacing it to a particular user.
type NarrativeRecommendation struct {
	Story             StoryCluster `json:"story"`
	Reason            string       `json:"reason"`
	InterestAlignment float64      `json:"interest_alignment"`
	Depth             DepthLevel   `json:"depth"`
	RelatedViewpoints []string     `json:"related_viewpoints,omitempty"`
}
