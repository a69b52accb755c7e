// Package pipeline sequences the curation stages and aggregates the result.
// The orchestrator never raises to its caller: stage failures degrade locally
// and unrecoverable failures produce a credibility-sorted fallback result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kakashi3lite/newscurator/internal/cache"
	"github.com/kakashi3lite/newscurator/internal/evidence"
	"github.com/kakashi3lite/newscurator/internal/llm"
	"github.com/kakashi3lite/newscurator/internal/model"
	"github.com/kakashi3lite/newscurator/internal/narrative"
	"github.com/kakashi3lite/newscurator/internal/perspective"
	"github.com/kakashi3lite/newscurator/internal/rank"
	"github.com/kakashi3lite/newscurator/internal/similarity"
	"github.com/kakashi3lite/newscurator/internal/worker"
)

// Request is one pipeline invocation's input. Articles are assumed validated;
// ingestion still applies the eligibility floor.
type Request struct {
	Articles  []model.Article
	UserID    string
	Context   model.PersonalizationContext
	Interests map[string]float64
}

// Orchestrator wires the clustering stages with the external collaborators.
type Orchestrator struct {
	config      model.Config
	evidence    *evidence.Clusterer
	summaries   *evidence.SummaryGenerator
	stories     *narrative.Clusterer
	recommender *narrative.Recommender
	perspective *perspective.Clusterer
	ranker      rank.Ranker
	advisor     llm.ModelSelectionAdvisor
	narrator    *llm.Narrator
	logger      *slog.Logger
	clock       func() time.Time
}

// NewOrchestrator builds an orchestrator with the default collaborators: the
// heuristic ranker, a cached static model advisor, and the text-generation
// narrator when a provider is configured.
func NewOrchestrator(cfg model.Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	var narrator *llm.Narrator
	if cfg.LLM.Provider != "" {
		n, err := llm.NewNarrator(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			logger.Warn("text-generation provider unavailable", "error", err)
		} else {
			narrator = n
		}
	}

	scorer := similarity.NewScorer()
	advisorCache := cache.NewAdvisorCache(cfg.Cache.AdvisorTTL)

	return &Orchestrator{
		config:      cfg,
		evidence:    evidence.NewClusterer(scorer, cfg.Evidence),
		summaries:   evidence.NewSummaryGenerator(cfg.Evidence),
		stories:     narrative.NewClusterer(cfg.Narrative),
		recommender: narrative.NewRecommender(cfg.Narrative),
		perspective: perspective.NewClusterer(perspective.NewIndicatorDetector(), cfg.Perspective),
		ranker:      rank.NewHeuristicRanker(cfg.Pipeline.DiversityBoost),
		advisor:     llm.NewCachedAdvisor(llm.NewStaticAdvisor(), advisorCache),
		narrator:    narrator,
		logger:      logger,
		clock:       time.Now,
	}
}

// WithRanker swaps the personalization collaborator.
func (o *Orchestrator) WithRanker(r rank.Ranker) *Orchestrator {
	o.ranker = r
	return o
}

// WithAdvisor swaps the model-selection collaborator.
func (o *Orchestrator) WithAdvisor(a llm.ModelSelectionAdvisor) *Orchestrator {
	o.advisor = a
	return o
}

// WithClock overrides the clock everywhere a stage reads time. The heuristic
// ranker picks it up too when it is the active ranker.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.clock = now
	if hr, ok := o.ranker.(*rank.HeuristicRanker); ok {
		hr.WithClock(now)
	}
	return o
}

type modelSelection struct {
	model  string
	timing model.StageTiming
}

// Curate runs one full pipeline invocation. It always returns a well-formed
// result; failures surface through fallbackMode and systemRecommendations.
func (o *Orchestrator) Curate(ctx context.Context, req Request) (result model.PipelineResult) {
	start := o.clock()
	var metrics model.PerformanceMetrics

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("pipeline failure, delivering fallback", "panic", r)
			result = o.fallback(req, fmt.Sprintf("unrecoverable failure: %v", r))
		}
	}()

	if o.config.Pipeline.SoftTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.Pipeline.SoftTimeout)
		defer cancel()
	}

	// Model selection is advisory only: it runs alongside the data stages
	// and its answer is collected at aggregation time.
	modelCh := make(chan modelSelection, 1)
	go o.selectModel(ctx, modelCh)

	articles := o.ingest(req, &metrics)
	if ctx.Err() != nil {
		return o.fallback(req, "soft timeout exceeded during ingest")
	}

	summaries := o.runEvidence(ctx, articles, &metrics)
	if ctx.Err() != nil {
		return o.fallback(req, "soft timeout exceeded during evidence analysis")
	}

	stories, recommendations := o.runNarrative(articles, req.Interests, &metrics)
	if ctx.Err() != nil {
		return o.fallback(req, "soft timeout exceeded during narrative analysis")
	}

	groups := o.runPerspective(ctx, stories, &metrics)
	if ctx.Err() != nil {
		return o.fallback(req, "soft timeout exceeded during perspective analysis")
	}

	ranked := o.runPersonalize(ctx, req, articles, &metrics)

	return o.aggregate(start, articles, summaries, stories, recommendations, groups, ranked, modelCh, &metrics)
}

func (o *Orchestrator) ingest(req Request, metrics *model.PerformanceMetrics) []model.Article {
	var articles []model.Article
	o.timeStage(metrics, "ingest", func() bool {
		articles = model.FilterEligible(req.Articles, o.config.Ingest.MinBodyLength, o.config.Ingest.MinCredibility)
		if dropped := len(req.Articles) - len(articles); dropped > 0 {
			o.logger.Info("filtered ineligible articles", "dropped", dropped, "kept", len(articles))
		}
		return false
	})
	return articles
}

// runEvidence clusters once, then scores and summarizes per topic query
// concurrently. With no articles it still produces the empty summary with
// maximum hallucination risk.
func (o *Orchestrator) runEvidence(ctx context.Context, articles []model.Article, metrics *model.PerformanceMetrics) []model.EvidenceSummary {
	var summaries []model.EvidenceSummary
	o.timeStage(metrics, "evidence", func() bool {
		clusters := o.evidence.ClusterArticles(articles)
		queries := topicQueries(articles)

		summaries = make([]model.EvidenceSummary, len(queries))
		worker.ForEach(ctx, len(queries), o.config.Concurrency.StageWorkers, func(i int) {
			scored := o.evidence.ScoreClusters(queries[i], clusters)
			reranked := o.evidence.Rerank(scored)
			summary := o.summaries.Generate(queries[i], reranked, o.config.Evidence.MaxSummaryLength)
			summaries[i] = o.narrate(ctx, summary)
		})
		return len(clusters) == 0
	})
	return summaries
}

func (o *Orchestrator) runNarrative(articles []model.Article, interests map[string]float64, metrics *model.PerformanceMetrics) ([]model.StoryCluster, []model.NarrativeRecommendation) {
	var stories []model.StoryCluster
	var recommendations []model.NarrativeRecommendation
	o.timeStage(metrics, "narrative", func() bool {
		stories = o.stories.ClusterIntoStories(articles)
		now := o.clock()
		for i := range stories {
			stories[i] = o.stories.ScoreCluster(stories[i], now)
		}
		recommendations = o.recommender.BuildRecommendations(stories, interests)
		return len(stories) == 0
	})
	return stories, recommendations
}

func (o *Orchestrator) runPerspective(ctx context.Context, stories []model.StoryCluster, metrics *model.PerformanceMetrics) []model.StoryPerspectiveGroup {
	type analyzed struct {
		group model.StoryPerspectiveGroup
		ok    bool
	}

	var groups []model.StoryPerspectiveGroup
	o.timeStage(metrics, "perspective", func() bool {
		results := worker.Map(ctx, o.config.Concurrency.StageWorkers, stories, func(_ context.Context, story model.StoryCluster) analyzed {
			group, ok := o.perspective.Analyze(story)
			return analyzed{group, ok}
		})

		groups = make([]model.StoryPerspectiveGroup, 0, len(results))
		for _, r := range results {
			if r.ok {
				groups = append(groups, r.group)
			}
		}
		groups = perspective.SortByBalance(groups)
		return len(groups) == 0 && len(stories) > 0
	})
	return groups
}

// runPersonalize calls the ranker collaborator, substituting the
// credibility-sorted list when it fails. The substitution is stage-local
// degradation, not pipeline fallback.
func (o *Orchestrator) runPersonalize(ctx context.Context, req Request, articles []model.Article, metrics *model.PerformanceMetrics) []model.RankedArticle {
	var ranked []model.RankedArticle
	o.timeStage(metrics, "personalize", func() bool {
		var err error
		ranked, err = o.ranker.Rank(ctx, req.UserID, articles, req.Context, req.Interests)
		if err != nil {
			o.logger.Warn("personalization failed, using credibility order", "error", err)
			ranked = rank.CredibilityFallback(articles)
			return true
		}
		return false
	})
	return ranked
}

func (o *Orchestrator) selectModel(ctx context.Context, out chan<- modelSelection) {
	defer close(out)
	if o.advisor == nil {
		return
	}

	stageStart := o.clock()
	cctx, cancel := context.WithTimeout(ctx, o.config.Pipeline.ExternalCall)
	defer cancel()

	modelID, err := o.advisor.SelectModel(cctx, llm.WorkloadClustering)
	timing := model.StageTiming{
		Stage:    "model_select",
		Duration: o.clock().Sub(stageStart),
	}
	if err != nil {
		o.logger.Warn("model selection unavailable", "error", err)
		timing.Degraded = true
		out <- modelSelection{timing: timing}
		return
	}
	out <- modelSelection{model: modelID, timing: timing}
}

func (o *Orchestrator) narrate(ctx context.Context, summary model.EvidenceSummary) model.EvidenceSummary {
	if o.narrator == nil || !o.narrator.IsEnabled() {
		return summary
	}

	cctx, cancel := context.WithTimeout(ctx, o.config.Pipeline.ExternalCall)
	defer cancel()

	text, err := o.narrator.Narrate(cctx, summary)
	if err != nil {
		o.logger.Warn("narrative generation degraded", "query", summary.Query, "error", err)
	}
	summary.Narrative = text
	return summary
}

// timeStage runs fn, appending its duration and degradation flag to metrics.
func (o *Orchestrator) timeStage(metrics *model.PerformanceMetrics, name string, fn func() bool) {
	stageStart := o.clock()
	degraded := fn()
	metrics.Stages = append(metrics.Stages, model.StageTiming{
		Stage:    name,
		Duration: o.clock().Sub(stageStart),
		Degraded: degraded,
	})
	if degraded {
		o.logger.Warn("stage degraded", "stage", name)
	}
}

// fallback builds the minimal result: raw articles sorted by credibility,
// everything else empty. Always succeeds by construction.
func (o *Orchestrator) fallback(req Request, reason string) model.PipelineResult {
	return model.PipelineResult{
		PersonalizedArticles: rank.CredibilityFallback(req.Articles),
		NarrativeStories:     []model.NarrativeRecommendation{},
		PerspectiveFeed:      []model.StoryPerspectiveGroup{},
		EvidenceSummaries:    []model.EvidenceSummary{},
		TrendingTopics:       []model.TrendingTopic{},
		BreakingNewsAlerts:   []model.BreakingNewsAlert{},
		FactCheckFlags:       []model.FactCheckFlag{},
		Metrics:              model.PerformanceMetrics{FallbackMode: true},
		FallbackMode:         true,
		SystemRecommendations: []string{
			"degraded operation: " + reason,
		},
	}
}
