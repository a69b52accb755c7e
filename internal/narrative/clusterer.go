package narrative

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kakashi3lite/newscurator/internal/model"
	"github.com/kakashi3lite/newscurator/internal/similarity"
)

// Story similarity weights: entity overlap dominates, temporal proximity
// contributes the rest. Outside the temporal window two articles can never
// clear the story threshold.
const (
	entityWeight   = 0.7
	temporalWeight = 0.3
)

// Clusterer groups articles into story clusters.
type Clusterer struct {
	threshold       float64
	maxSize         int
	window          time.Duration
	recencyHalfLife time.Duration
}

// NewClusterer creates a story Clusterer from configuration.
func NewClusterer(cfg model.NarrativeConfig) *Clusterer {
	threshold := cfg.StoryThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = 0.7
	}
	maxSize := cfg.MaxStorySize
	if maxSize <= 0 {
		maxSize = 8
	}
	window := cfg.TemporalWindow
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	halfLife := cfg.RecencyHalfLife
	if halfLife <= 0 {
		halfLife = 48 * time.Hour
	}
	return &Clusterer{
		threshold:       threshold,
		maxSize:         maxSize,
		window:          window,
		recencyHalfLife: halfLife,
	}
}

// ClusterIntoStories groups articles sharing entities and publish proximity.
// Each unused article seeds a candidate cluster; candidates join when
// 0.7*entityJaccard + 0.3*temporal exceeds the threshold, capped per cluster.
// Clusters need at least two articles; single articles never form a story.
func (c *Clusterer) ClusterIntoStories(articles []model.Article) []model.StoryCluster {
	if len(articles) < 2 {
		return []model.StoryCluster{}
	}

	entities := make([][]string, len(articles))
	for i, a := range articles {
		entities[i] = ExtractEntities(a.Text())
	}

	used := make([]bool, len(articles))
	var stories []model.StoryCluster

	for i := range articles {
		if used[i] {
			continue
		}
		used[i] = true
		memberIdx := []int{i}

		for j := i + 1; j < len(articles); j++ {
			if used[j] || len(memberIdx) >= c.maxSize {
				continue
			}
			if c.storySimilarity(entities[i], entities[j], articles[i].PublishedAt, articles[j].PublishedAt) > c.threshold {
				used[j] = true
				memberIdx = append(memberIdx, j)
			}
		}

		if len(memberIdx) < 2 {
			continue // Singletons are dropped, not an error.
		}

		members := make([]model.Article, len(memberIdx))
		texts := make([]string, len(memberIdx))
		for k, idx := range memberIdx {
			members[k] = articles[idx]
			texts[k] = articles[idx].Text()
		}
		sort.SliceStable(members, func(a, b int) bool {
			return members[a].PublishedAt.Before(members[b].PublishedAt)
		})

		story := model.StoryCluster{
			ID:              storyID(articles[i].ID),
			Articles:        members,
			Entities:        unionEntities(memberIdx, entities),
			GeographicScope: GeographicScope(texts),
		}
		story.Arc = DetermineStoryArc(story)
		stories = append(stories, story)
	}

	return stories
}

// storySimilarity blends entity overlap with a binary temporal flag.
func (c *Clusterer) storySimilarity(entitiesA, entitiesB []string, timeA, timeB time.Time) float64 {
	jaccard := similarity.JaccardStrings(entitiesA, entitiesB)
	temporal := 0.0
	gap := timeA.Sub(timeB)
	if gap < 0 {
		gap = -gap
	}
	if gap <= c.window {
		temporal = 1.0
	}
	return entityWeight*jaccard + temporalWeight*temporal
}

// ScoreCluster fills coherence and importance on a copy of the story.
// Coherence rewards entity density and complete timelines; importance blends
// article count, mean credibility, and recency decay against now.
func (c *Clusterer) ScoreCluster(story model.StoryCluster, now time.Time) model.StoryCluster {
	n := float64(len(story.Articles))
	if n == 0 {
		return story
	}

	entityDensity := float64(len(story.Entities)) / n
	temporalFlag := 1.0
	for _, a := range story.Articles {
		if a.PublishedAt.IsZero() {
			temporalFlag = 0
			break
		}
	}
	story.CoherenceScore = math.Min(1, entityDensity*0.6+temporalFlag*0.4)

	latest := story.Articles[len(story.Articles)-1].PublishedAt
	age := now.Sub(latest)
	if age < 0 {
		age = 0
	}
	decay := math.Pow(0.5, age.Hours()/c.recencyHalfLife.Hours())

	story.ImportanceScore = 0.3*math.Min(1, n/5) + 0.4*story.MeanCredibility() + 0.3*decay
	return story
}

// DetermineStoryArc classifies a story's lifecycle stage from the publish
// span of its articles.
func DetermineStoryArc(story model.StoryCluster) model.StoryArc {
	if len(story.Articles) == 0 {
		return model.ArcBreaking
	}
	first := story.Articles[0].PublishedAt
	last := story.Articles[len(story.Articles)-1].PublishedAt
	spanDays := int(last.Sub(first).Hours() / 24)
	switch {
	case spanDays <= 0:
		return model.ArcBreaking
	case spanDays <= 2:
		return model.ArcDeveloping
	case spanDays <= 7:
		return model.ArcOngoing
	default:
		return model.ArcConclusion
	}
}

func storyID(seedID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("story:"+seedID)).String()
}

func unionEntities(memberIdx []int, entities [][]string) []string {
	seen := make(map[string]bool)
	var union []string
	for _, idx := range memberIdx {
		for _, e := range entities[idx] {
			key := strings.ToLower(e)
			if !seen[key] {
				seen[key] = true
				union = append(union, e)
			}
		}
	}
	return union
}
