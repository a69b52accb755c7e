// Package evidence groups articles into evidence-consistent clusters and
// derives cited, confidence-scored summaries from them.
package evidence

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kakashi3lite/newscurator/internal/model"
	"github.com/kakashi3lite/newscurator/internal/similarity"
)

// Clusterer partitions articles into evidence clusters by text similarity.
type Clusterer struct {
	scorer    similarity.TextScorer
	threshold float64
	maxSize   int
}

// NewClusterer creates a Clusterer with the given scoring strategy.
func NewClusterer(scorer similarity.TextScorer, cfg model.EvidenceConfig) *Clusterer {
	threshold := cfg.SimilarityThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = 0.6
	}
	maxSize := cfg.MaxClusterSize
	if maxSize <= 0 {
		maxSize = 5
	}
	return &Clusterer{
		scorer:    scorer,
		threshold: threshold,
		maxSize:   maxSize,
	}
}

// ClusterArticles greedily partitions articles: the first unclustered article
// seeds a cluster, every later unclustered article whose similarity to the
// seed exceeds the threshold joins it, up to the size cap. Every input
// article lands in exactly one cluster.
func (c *Clusterer) ClusterArticles(articles []model.Article) []model.EvidenceCluster {
	if len(articles) == 0 {
		return []model.EvidenceCluster{}
	}

	used := make([]bool, len(articles))
	var clusters []model.EvidenceCluster

	for i := range articles {
		if used[i] {
			continue
		}
		used[i] = true
		members := []model.Article{articles[i]}

		for j := i + 1; j < len(articles); j++ {
			if used[j] || len(members) >= c.maxSize {
				continue
			}
			if c.scorer.Similarity(articles[i].Text(), articles[j].Text()) > c.threshold {
				used[j] = true
				members = append(members, articles[j])
			}
		}

		clusters = append(clusters, model.EvidenceCluster{
			ID:       clusterID(articles[i].ID),
			Articles: members,
			Sources:  uniqueSources(members),
		})
	}

	return clusters
}

// ScoreClusters returns scored copies of the given clusters for a query.
// Consistency is the mean pairwise similarity among member articles (1.0 for
// singletons); relevance scores the query against the concatenated cluster
// text; confidence combines the two per the fixed weighting. Key claims are
// extracted from member articles as part of scoring.
func (c *Clusterer) ScoreClusters(query string, clusters []model.EvidenceCluster) []model.EvidenceCluster {
	scored := make([]model.EvidenceCluster, len(clusters))
	for i, cluster := range clusters {
		cluster.ConsistencyScore = c.consistency(cluster.Articles)
		cluster.RelevanceScore = c.scorer.Relevance(query, concatText(cluster.Articles))
		cluster.ConfidenceScore = model.Confidence(cluster.ConsistencyScore, cluster.RelevanceScore)
		cluster.KeyClaims = extractClaims(cluster.Articles, 2)
		scored[i] = cluster
	}
	return scored
}

// Rerank stably sorts clusters by confidence descending, ties broken by
// cluster size descending.
func (c *Clusterer) Rerank(clusters []model.EvidenceCluster) []model.EvidenceCluster {
	ranked := make([]model.EvidenceCluster, len(clusters))
	copy(ranked, clusters)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].ConfidenceScore != ranked[j].ConfidenceScore {
			return ranked[i].ConfidenceScore > ranked[j].ConfidenceScore
		}
		return len(ranked[i].Articles) > len(ranked[j].Articles)
	})
	return ranked
}

// consistency is the mean pairwise similarity among cluster articles.
func (c *Clusterer) consistency(articles []model.Article) float64 {
	if len(articles) <= 1 {
		return 1.0
	}
	sum := 0.0
	pairs := 0
	for i := 0; i < len(articles); i++ {
		for j := i + 1; j < len(articles); j++ {
			sum += c.scorer.Similarity(articles[i].Text(), articles[j].Text())
			pairs++
		}
	}
	return sum / float64(pairs)
}

// clusterID derives a stable identifier from the seed article, so identical
// inputs produce identical cluster IDs.
func clusterID(seedID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("evidence:"+seedID)).String()
}

func concatText(articles []model.Article) string {
	parts := make([]string, len(articles))
	for i, a := range articles {
		parts[i] = a.Text()
	}
	return strings.Join(parts, " ")
}

func uniqueSources(articles []model.Article) []string {
	seen := make(map[string]bool, len(articles))
	var sources []string
	for _, a := range articles {
		if a.Source == "" || seen[a.Source] {
			continue
		}
		seen[a.Source] = true
		sources = append(sources, a.Source)
	}
	return sources
}
