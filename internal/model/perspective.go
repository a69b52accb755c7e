package model

// PerspectiveCategory classifies the editorial viewpoint of an article.
// Detection is heuristic and swappable; categories are placeholder strategy
// data, not a stable external contract.
type PerspectiveCategory string

const (
	PerspectiveMainstream    PerspectiveCategory = "mainstream"
	PerspectiveAlternative   PerspectiveCategory = "alternative"
	PerspectiveLiberal       PerspectiveCategory = "liberal"
	PerspectiveConservative  PerspectiveCategory = "conservative"
	PerspectiveInternational PerspectiveCategory = "international"
	PerspectiveLocal         PerspectiveCategory = "local"
)

// ViewpointCluster groups the articles of one story that share a detected
// perspective category.
type ViewpointCluster struct {
	Category         PerspectiveCategory `json:"category"`
	Articles         []Article           `json:"articles"`
	BiasRating       float64             `json:"bias_rating"`       // Mean of member bias ratings, [-1,1]
	ConfidenceScore  float64             `json:"confidence_score"`  // 0.4*min(1,n/3) + 0.6*meanCredibility
	EvidenceStrength float64             `json:"evidence_strength"` // Mean evidentiary keyword density
}

// Strength is the coverage weight of a viewpoint: count x confidence x
// evidence strength. Used for balance scoring between opposing sides.
func (v ViewpointCluster) Strength() float64 {
	return float64(len(v.Articles)) * v.ConfidenceScore * v.EvidenceStrength
}

// StoryPerspectiveGroup annotates a story cluster with its two most
// contrasting viewpoints plus a structured side-by-side comparison.
type StoryPerspectiveGroup struct {
	Story          StoryCluster       `json:"story"`
	SideA          ViewpointCluster   `json:"side_a"`
	SideB          ViewpointCluster   `json:"side_b"`
	Additional     []ViewpointCluster `json:"additional,omitempty"`
	SharedFacts    []string           `json:"shared_facts,omitempty"`
	KeyDifferences []string           `json:"key_differences,omitempty"`
	DisputedClaims []string           `json:"disputed_claims,omitempty"`
	BalanceScore   float64            `json:"balance_score"` // min(strengthA,strengthB)/max(...), [0,1]
}

// ArticleCount counts all articles across both sides and additional viewpoints.
func (g StoryPerspectiveGroup) ArticleCount() int {
	n := len(g.SideA.Articles) + len(g.SideB.Articles)
	for _, v := range g.Additional {
		n += len(v.Articles)
	}
	return n
}
