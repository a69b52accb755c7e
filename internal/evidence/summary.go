package evidence

import (
	"sort"
	"strings"

	"github.com/kakashi3lite/newscurator/internal/model"
)

const (
	maxCitationSources   = 2
	maxClaimsPerCluster  = 2
	fallbackClusterCount = 2
)

// SummaryGenerator builds cited evidence summaries from scored clusters.
type SummaryGenerator struct {
	citationThreshold float64
}

// NewSummaryGenerator creates a SummaryGenerator. Clusters at or above the
// citation threshold are considered citation-worthy.
func NewSummaryGenerator(cfg model.EvidenceConfig) *SummaryGenerator {
	threshold := cfg.CitationConfidence
	if threshold <= 0 || threshold > 1 {
		threshold = 0.8
	}
	return &SummaryGenerator{citationThreshold: threshold}
}

// Generate derives an EvidenceSummary for a query from scored clusters.
// Citation-worthy clusters (confidence >= threshold) are preferred; when
// none qualify, the top two by confidence serve as a degraded basis. An
// empty cluster list yields an empty summary with hallucination risk 1.0,
// never an error.
func (g *SummaryGenerator) Generate(query string, clusters []model.EvidenceCluster, maxLength int) model.EvidenceSummary {
	if len(clusters) == 0 {
		return model.EvidenceSummary{
			Query:             query,
			Narrative:         "",
			Confidence:        0,
			FactCheckStatus:   model.FactCheckUnverified,
			HallucinationRisk: 1.0,
		}
	}

	selected := g.selectClusters(clusters)

	var citations []model.Citation
	var leadClaims []string
	for i, cluster := range selected {
		claims := cluster.KeyClaims
		if len(claims) > maxClaimsPerCluster {
			claims = claims[:maxClaimsPerCluster]
		}
		for _, claim := range claims {
			sources := cluster.Sources
			if len(sources) > maxCitationSources {
				sources = sources[:maxCitationSources]
			}
			citations = append(citations, model.Citation{
				Claim:      claim,
				Sources:    sources,
				Confidence: cluster.ConfidenceScore,
			})
		}
		if i < 2 && len(claims) > 0 {
			leadClaims = append(leadClaims, claims[0])
		}
	}

	narrative := truncate(strings.Join(leadClaims, " "), maxLength)

	overall := meanConfidence(selected)
	status := model.FactCheckUnverified
	if overall > g.citationThreshold {
		status = model.FactCheckVerified
	}

	return model.EvidenceSummary{
		Query:             query,
		Narrative:         narrative,
		Citations:         citations,
		Confidence:        overall,
		FactCheckStatus:   status,
		HallucinationRisk: hallucinationRisk(selected),
	}
}

// selectClusters picks citation-worthy clusters, falling back to the
// top clusters by confidence when none qualify.
func (g *SummaryGenerator) selectClusters(clusters []model.EvidenceCluster) []model.EvidenceCluster {
	var worthy []model.EvidenceCluster
	for _, cluster := range clusters {
		if cluster.ConfidenceScore >= g.citationThreshold {
			worthy = append(worthy, cluster)
		}
	}
	if len(worthy) > 0 {
		return worthy
	}

	ranked := make([]model.EvidenceCluster, len(clusters))
	copy(ranked, clusters)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ConfidenceScore > ranked[j].ConfidenceScore
	})
	if len(ranked) > fallbackClusterCount {
		ranked = ranked[:fallbackClusterCount]
	}
	return ranked
}

// hallucinationRisk estimates how likely a summary overstates its support:
// 1 - (0.6*avgConsistency + 0.4*avgRelevance), clamped to [0,1].
func hallucinationRisk(clusters []model.EvidenceCluster) float64 {
	if len(clusters) == 0 {
		return 1.0
	}
	var consistency, relevance float64
	for _, cluster := range clusters {
		consistency += cluster.ConsistencyScore
		relevance += cluster.RelevanceScore
	}
	n := float64(len(clusters))
	risk := 1.0 - model.Confidence(consistency/n, relevance/n)
	if risk < 0 {
		return 0
	}
	if risk > 1 {
		return 1
	}
	return risk
}

func meanConfidence(clusters []model.EvidenceCluster) float64 {
	if len(clusters) == 0 {
		return 0
	}
	sum := 0.0
	for _, cluster := range clusters {
		sum += cluster.ConfidenceScore
	}
	return sum / float64(len(clusters))
}

func truncate(text string, maxLength int) string {
	if maxLength <= 0 || len(text) <= maxLength {
		return text
	}
	return text[:maxLength]
}
