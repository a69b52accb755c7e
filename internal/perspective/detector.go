// Package perspective splits story clusters into contrasting viewpoints and
// builds side-by-side comparisons of the two most opposed ones.
package perspective

import (
	"strings"

	"github.com/kakashi3lite/newscurator/internal/model"
)

// Detector is the swappable perspective-detection strategy. A stronger
// classifier can replace the indicator heuristic without touching clustering
// or orchestration code.
type Detector interface {
	Detect(text string) model.PerspectiveCategory
}

// categoryOrder fixes the tie-break order for equal indicator counts.
var categoryOrder = []model.PerspectiveCategory{
	model.PerspectiveLiberal,
	model.PerspectiveConservative,
	model.PerspectiveAlternative,
	model.PerspectiveInternational,
	model.PerspectiveLocal,
}

// IndicatorDetector scores categories by counting indicator phrases.
// The phrase tables are placeholder strategy data.
type IndicatorDetector struct {
	indicators map[model.PerspectiveCategory][]string
}

// NewIndicatorDetector creates the default indicator-phrase detector.
func NewIndicatorDetector() *IndicatorDetector {
	return &IndicatorDetector{
		indicators: map[model.PerspectiveCategory][]string{
			model.PerspectiveLiberal: {
				"progressive", "social justice", "climate justice", "equity",
				"reproductive rights", "union workers", "wealth inequality",
			},
			model.PerspectiveConservative: {
				"traditional values", "fiscal responsibility", "border security",
				"free market", "law and order", "second amendment", "deregulation",
			},
			model.PerspectiveAlternative: {
				"the establishment", "cover-up", "mainstream media won't",
				"independent researchers", "what they don't want you to know",
				"hidden agenda",
			},
			model.PerspectiveInternational: {
				"foreign ministry", "united nations", "international community",
				"global markets", "cross-border", "bilateral talks",
			},
			model.PerspectiveLocal: {
				"city council", "local residents", "school board", "county",
				"mayor", "neighborhood association",
			},
		},
	}
}

// Detect returns the highest-scoring nonzero category for the text, or
// mainstream when no indicator phrase matches.
func (d *IndicatorDetector) Detect(text string) model.PerspectiveCategory {
	lower := strings.ToLower(text)

	best := model.PerspectiveMainstream
	bestCount := 0
	for _, category := range categoryOrder {
		count := 0
		for _, phrase := range d.indicators[category] {
			count += strings.Count(lower, phrase)
		}
		if count > bestCount {
			bestCount = count
			best = category
		}
	}
	return best
}

// Evidentiary keywords used to estimate how well a viewpoint backs its
// coverage with attributable statements.
var evidentiaryKeywords = []string{
	"according to", "data", "study", "report", "survey", "official",
	"statistics", "records", "documents", "research", "confirmed",
}

// evidenceDensity scores one article's evidentiary keyword density in [0,1].
func evidenceDensity(text string) float64 {
	lower := strings.ToLower(text)
	count := 0
	for _, keyword := range evidentiaryKeywords {
		count += strings.Count(lower, keyword)
	}
	density := float64(count) / 3.0
	if density > 1 {
		return 1
	}
	return density
}
