// Package source provides article ingestion: fixture files for offline runs
// and a polite HTTP fetcher for live ones. Both apply the eligibility floor
// before handing articles to the pipeline.
package source

import (
	"context"

	"github.com/kakashi3lite/newscurator/internal/model"
)

// ArticleSource supplies candidate articles for one pipeline invocation.
type ArticleSource interface {
	FetchArticles(ctx context.Context, topics []string, limit int) ([]model.Article, error)
}
