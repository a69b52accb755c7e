package model

// Weights for combining consistency and relevance into cluster confidence.
const (
	ConsistencyWeight = 0.6
	RelevanceWeight   = 0.4
)

// EvidenceCluster groups articles judged mutually consistent by text
// similarity, forming the evidentiary basis for one structured claim.
type EvidenceCluster struct {
	ID               string    `json:"id"`
	Articles         []Article `json:"articles"`
	ConsistencyScore float64   `json:"consistency_score"` // Mean pairwise similarity; 1.0 for singletons
	RelevanceScore   float64   `json:"relevance_score"`   // Relevance of cluster text to the query
	ConfidenceScore  float64   `json:"confidence_score"`  // 0.6*consistency + 0.4*relevance
	KeyClaims        []string  `json:"key_claims,omitempty"`
	Sources          []string  `json:"sources,omitempty"`
}

// Confidence combines consistency and relevance per the fixed weighting.
func Confidence(consistency, relevance float64) float64 {
	return ConsistencyWeight*consistency + RelevanceWeight*relevance
}

// FactCheckStatus labels the verification state of an evidence summary.
type FactCheckStatus string

const (
	FactCheckVerified   FactCheckStatus = "verified"
	FactCheckUnverified FactCheckStatus = "unverified"
)

// Citation attaches sources and a confidence score to one extracted claim.
type Citation struct {
	Claim      string   `json:"claim"`
	Sources    []string `json:"sources,omitempty"`
	Confidence float64  `json:"confidence"`
}

// EvidenceSummary is a query-scoped digest derived from scored evidence
// clusters: bounded narrative text plus per-claim citations and an estimate
// of how likely the narrative overstates its support.
type EvidenceSummary struct {
	Query             string          `json:"query"`
	Narrative         string          `json:"narrative"`
	Citations         []Citation      `json:"citations,omitempty"`
	Confidence        float64         `json:"confidence"`
	FactCheckStatus   FactCheckStatus `json:"fact_check_status"`
	HallucinationRisk float64         `json:"hallucination_risk"` // [0,1]; 1.0 on empty input
}
