package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kakashi3lite/newscurator/internal/model"
)

// FileSource reads articles from a JSON fixture file. Used for offline runs
// and reproducible demos.
type FileSource struct {
	path    string
	minBody int
	minCred float64
}

// NewFileSource creates a source reading from path.
func NewFileSource(path string, cfg model.IngestConfig) *FileSource {
	return &FileSource{
		path:    path,
		minBody: cfg.MinBodyLength,
		minCred: cfg.MinCredibility,
	}
}

type articleRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Credibility float64   `json:"credibility"`
	Topics      []string  `json:"topics,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Bias        string    `json:"bias,omitempty"`
}

// FetchArticles loads the fixture file, drops records that fail validation or
// the eligibility floor, and applies topic filtering and the limit.
func (s *FileSource) FetchArticles(_ context.Context, topics []string, limit int) ([]model.Article, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	var records []articleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	articles := make([]model.Article, 0, len(records))
	for _, rec := range records {
		a, err := model.NewArticle(rec.ID, rec.Title, rec.Body, rec.Source, rec.PublishedAt, rec.Credibility)
		if err != nil {
			return nil, fmt.Errorf("article %q: %w", rec.ID, err)
		}
		a.Topics = rec.Topics
		a.Summary = rec.Summary
		a.Bias = model.BiasLabel(rec.Bias)

		if len(topics) > 0 {
			matched := matchTopics(a, topics)
			if len(matched) == 0 {
				continue
			}
		}
		articles = append(articles, a)
	}

	articles = model.FilterEligible(articles, s.minBody, s.minCred)
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}
