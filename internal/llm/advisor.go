package llm

import (
	"context"

	"github.com/kakashi3lite/newscurator/internal/cache"
)

// ModelSelectionAdvisor recommends a model for a workload type. The result
// is advisory only: it is recorded in pipeline metrics and never changes
// pipeline behavior.
type ModelSelectionAdvisor interface {
	SelectModel(ctx context.Context, workloadType string) (string, error)
}

// Workload types the pipeline asks about.
const (
	WorkloadClustering = "clustering"
	WorkloadSummary    = "summary"
)

// StaticAdvisor maps workload types to models from a fixed table.
type StaticAdvisor struct {
	models       map[string]string
	defaultModel string
}

// NewStaticAdvisor creates the default advisor table.
func NewStaticAdvisor() *StaticAdvisor {
	return &StaticAdvisor{
		models: map[string]string{
			WorkloadClustering: "gpt-4o-mini",
			WorkloadSummary:    "gpt-4o",
		},
		defaultModel: "gpt-4o-mini",
	}
}

// SelectModel returns the advised model for the workload type.
func (a *StaticAdvisor) SelectModel(_ context.Context, workloadType string) (string, error) {
	if m, ok := a.models[workloadType]; ok {
		return m, nil
	}
	return a.defaultModel, nil
}

// CachedAdvisor wraps an advisor with the shared read-mostly cache so
// concurrent pipeline invocations reuse the last selection instead of
// re-asking per request.
type CachedAdvisor struct {
	advisor ModelSelectionAdvisor
	cache   *cache.AdvisorCache
}

// NewCachedAdvisor wraps advisor with the given cache.
func NewCachedAdvisor(advisor ModelSelectionAdvisor, advisorCache *cache.AdvisorCache) *CachedAdvisor {
	return &CachedAdvisor{advisor: advisor, cache: advisorCache}
}

// SelectModel serves from cache, refreshing single-flight when stale.
func (a *CachedAdvisor) SelectModel(ctx context.Context, workloadType string) (string, error) {
	model := a.cache.GetOrRefresh(ctx, workloadType, func(ctx context.Context) (string, error) {
		return a.advisor.SelectModel(ctx, workloadType)
	})
	return model, nil
}
