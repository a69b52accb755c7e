package perspective

import (
	"math"
	"sort"

	"github.com/kakashi3lite/newscurator/internal/model"
)

// Clusterer detects viewpoints within story clusters and selects the most
// contrasting pair as Side A / Side B.
type Clusterer struct {
	detector Detector
	comparer *Comparer
}

// NewClusterer creates a perspective Clusterer with the given detection
// strategy.
func NewClusterer(detector Detector, cfg model.PerspectiveConfig) *Clusterer {
	return &Clusterer{
		detector: detector,
		comparer: NewComparer(cfg),
	}
}

// Eligible reports whether a story has enough source or bias diversity to be
// worth splitting into viewpoints.
func Eligible(story model.StoryCluster) bool {
	sources := make(map[string]bool)
	biases := make(map[model.BiasLabel]bool)
	for _, a := range story.Articles {
		if a.Source != "" {
			sources[a.Source] = true
		}
		if a.Bias != "" {
			biases[a.Bias] = true
		}
	}
	return len(sources) >= 2 || len(biases) >= 2
}

// GroupByPerspective buckets the story's articles into viewpoint clusters by
// detected category, in first-seen order for determinism.
func (c *Clusterer) GroupByPerspective(story model.StoryCluster) []model.ViewpointCluster {
	buckets := make(map[model.PerspectiveCategory][]model.Article)
	var order []model.PerspectiveCategory

	for _, a := range story.Articles {
		category := c.detector.Detect(a.Text())
		if _, ok := buckets[category]; !ok {
			order = append(order, category)
		}
		buckets[category] = append(buckets[category], a)
	}

	viewpoints := make([]model.ViewpointCluster, 0, len(order))
	for _, category := range order {
		viewpoints = append(viewpoints, buildViewpoint(category, buckets[category]))
	}
	return viewpoints
}

func buildViewpoint(category model.PerspectiveCategory, articles []model.Article) model.ViewpointCluster {
	n := float64(len(articles))

	var credibility, bias, evidence float64
	for _, a := range articles {
		credibility += a.Credibility
		bias += a.Bias.Rating()
		evidence += evidenceDensity(a.Text())
	}

	return model.ViewpointCluster{
		Category:         category,
		Articles:         articles,
		BiasRating:       bias / n,
		ConfidenceScore:  0.4*math.Min(1, n/3) + 0.6*(credibility/n),
		EvidenceStrength: evidence / n,
	}
}

// Category-opposition table: how strongly two perspective categories
// contrast. Placeholder strategy data, symmetric.
var oppositionTable = map[[2]model.PerspectiveCategory]float64{
	{model.PerspectiveLiberal, model.PerspectiveConservative}:   1.0,
	{model.PerspectiveMainstream, model.PerspectiveAlternative}: 0.8,
	{model.PerspectiveInternational, model.PerspectiveLocal}:    0.6,
}

const (
	defaultContrast   = 0.2
	oppositeBiasBonus = 0.2
)

// ContrastScore rates how opposed two viewpoints are: the category table
// plus a bonus when their aggregate bias ratings point opposite ways.
func ContrastScore(a, b model.ViewpointCluster) float64 {
	score := defaultContrast
	if v, ok := oppositionTable[[2]model.PerspectiveCategory{a.Category, b.Category}]; ok {
		score = v
	} else if v, ok := oppositionTable[[2]model.PerspectiveCategory{b.Category, a.Category}]; ok {
		score = v
	}
	if a.BiasRating*b.BiasRating < 0 {
		score += oppositeBiasBonus
	}
	return score
}

// SelectSides picks the maximally contrasting viewpoint pair as sides A and
// B; every other viewpoint becomes additional. Requires at least two
// viewpoints.
func SelectSides(viewpoints []model.ViewpointCluster) (sideA, sideB model.ViewpointCluster, additional []model.ViewpointCluster, ok bool) {
	if len(viewpoints) < 2 {
		return model.ViewpointCluster{}, model.ViewpointCluster{}, nil, false
	}

	bestI, bestJ := 0, 1
	bestScore := -1.0
	for i := 0; i < len(viewpoints); i++ {
		for j := i + 1; j < len(viewpoints); j++ {
			if score := ContrastScore(viewpoints[i], viewpoints[j]); score > bestScore {
				bestScore = score
				bestI, bestJ = i, j
			}
		}
	}

	for k, v := range viewpoints {
		if k != bestI && k != bestJ {
			additional = append(additional, v)
		}
	}
	return viewpoints[bestI], viewpoints[bestJ], additional, true
}

// BalanceScore measures how evenly matched the two sides are:
// min(strengthA, strengthB) / max(strengthA, strengthB), in [0,1], exactly
// 1.0 for identical strengths.
func BalanceScore(sideA, sideB model.ViewpointCluster) float64 {
	strengthA := sideA.Strength()
	strengthB := sideB.Strength()
	if strengthA == strengthB {
		return 1.0
	}
	lo, hi := strengthA, strengthB
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi == 0 {
		return 0
	}
	return lo / hi
}

// Analyze splits one eligible story into a perspective group. Returns false
// when the story lacks diversity or yields fewer than two viewpoints.
func (c *Clusterer) Analyze(story model.StoryCluster) (model.StoryPerspectiveGroup, bool) {
	if !Eligible(story) {
		return model.StoryPerspectiveGroup{}, false
	}

	viewpoints := c.GroupByPerspective(story)
	sideA, sideB, additional, ok := SelectSides(viewpoints)
	if !ok {
		return model.StoryPerspectiveGroup{}, false
	}

	shared, differences, disputed := c.comparer.Compare(sideA, sideB)

	return model.StoryPerspectiveGroup{
		Story:          story,
		SideA:          sideA,
		SideB:          sideB,
		Additional:     additional,
		SharedFacts:    shared,
		KeyDifferences: differences,
		DisputedClaims: disputed,
		BalanceScore:   BalanceScore(sideA, sideB),
	}, true
}

// SortByBalance orders perspective groups by balance descending (most evenly
// covered stories first), stable with article count as the secondary key.
func SortByBalance(groups []model.StoryPerspectiveGroup) []model.StoryPerspectiveGroup {
	sorted := make([]model.StoryPerspectiveGroup, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BalanceScore != sorted[j].BalanceScore {
			return sorted[i].BalanceScore > sorted[j].BalanceScore
		}
		return sorted[i].ArticleCount() > sorted[j].ArticleCount()
	})
	return sorted
}
