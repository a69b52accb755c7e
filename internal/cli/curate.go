package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kakashi3lite/newscurator/internal/cache"
	"github.com/kakashi3lite/newscurator/internal/logging"
	"github.com/kakashi3lite/newscurator/internal/model"
	"github.com/kakashi3lite/newscurator/internal/pipeline"
	"github.com/kakashi3lite/newscurator/internal/source"
)

var (
	fixturesPath string
	fetchURLs    []string
	topics       []string
	limit        int
	userID       string
	interestsRaw []string
	recentReads  []string
	quickScan    bool
	deepRead     bool
	outJSON      string
	timeout      time.Duration
	noCache      bool
	llmEnabled   bool
	llmProvider  string
	llmModel     string
)

// curateCmd represents the curate command
var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Run one curation pipeline invocation and print the result",
	Long: `Curate loads articles from a JSON fixture file or fetches them from
URLs, runs the full analysis pipeline (evidence, narrative, perspective,
personalization), and renders the result as JSON.

Example:
  newscurator curate --fixtures articles.json --user alice
  newscurator curate --url https://example.com/news/a --url https://example.com/news/b
  newscurator curate --fixtures articles.json --topic climate --interest climate=0.9
  newscurator curate --fixtures articles.json --llm --llm-model gpt-4o-mini`,
	RunE: runCurate,
}

func init() {
	rootCmd.AddCommand(curateCmd)

	// Input flags
	curateCmd.Flags().StringVar(&fixturesPath, "fixtures", "", "JSON file of articles to curate")
	curateCmd.Flags().StringArrayVar(&fetchURLs, "url", nil, "article URL to fetch (repeatable)")
	curateCmd.Flags().StringArrayVar(&topics, "topic", nil, "restrict curation to a topic (repeatable)")
	curateCmd.Flags().IntVar(&limit, "limit", 0, "max articles to ingest (0 = no limit)")

	// Personalization flags
	curateCmd.Flags().StringVar(&userID, "user", "anonymous", "user identifier for personalization")
	curateCmd.Flags().StringArrayVar(&interestsRaw, "interest", nil, "interest weight as topic=weight (repeatable)")
	curateCmd.Flags().StringArrayVar(&recentReads, "recent", nil, "recently read article ID (repeatable)")
	curateCmd.Flags().BoolVar(&quickScan, "quick-scan", false, "prefer short reads")
	curateCmd.Flags().BoolVar(&deepRead, "deep-read", false, "prefer in-depth reads")

	// Output flags
	curateCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")

	// Pipeline flags
	curateCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall invocation timeout")
	curateCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fetch cache")

	// LLM flags
	curateCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	curateCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider")
	curateCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runCurate(cmd *cobra.Command, args []string) error {
	if fixturesPath == "" && len(fetchURLs) == 0 {
		return fmt.Errorf("either --fixtures or at least one --url is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := loadConfig()
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	level := "info"
	if verbose {
		level = "debug"
	}
	logger := logging.New(level, logFormat)

	interests, err := parseInterests(interestsRaw)
	if err != nil {
		return err
	}

	articles, err := loadArticles(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("load articles: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Ingested %d articles\n", len(articles))
	}

	now := time.Now()
	result := pipeline.NewOrchestrator(cfg, logging.For(logger, "pipeline")).Curate(ctx, pipeline.Request{
		Articles: articles,
		UserID:   userID,
		Context: model.PersonalizationContext{
			RecentReads: recentReads,
			HourOfDay:   now.Hour(),
			QuickScan:   quickScan,
			DeepRead:    deepRead,
		},
		Interests: interests,
	})

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %d personalized articles\n", len(result.PersonalizedArticles))
		fmt.Fprintf(os.Stderr, "✓ %d narrative stories\n", len(result.NarrativeStories))
		fmt.Fprintf(os.Stderr, "✓ %d perspective groups\n", len(result.PerspectiveFeed))
		for _, warning := range result.SystemRecommendations {
			fmt.Fprintf(os.Stderr, "⚠ %s\n", warning)
		}
	}

	return renderResult(result, outJSON)
}

func loadArticles(ctx context.Context, cfg model.Config, logger *slog.Logger) ([]model.Article, error) {
	if fixturesPath != "" {
		return source.NewFileSource(fixturesPath, cfg.Ingest).FetchArticles(ctx, topics, limit)
	}

	var pageCache cache.Cache
	if cfg.Cache.Enabled {
		pageCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.DiskDir, cfg.Cache.DiskTTL)
	}
	src := source.NewHTTPSource(cfg, fetchURLs, pageCache, logging.For(logger, "source"))
	return src.FetchArticles(ctx, topics, limit)
}

// parseInterests parses repeated topic=weight flags.
func parseInterests(raw []string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	interests := make(map[string]float64, len(raw))
	for _, entry := range raw {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid interest %q, expected topic=weight", entry)
		}
		weight, err := strconv.ParseFloat(value, 64)
		if err != nil || weight < 0 || weight > 1 {
			return nil, fmt.Errorf("invalid interest weight %q, expected a value in [0,1]", value)
		}
		interests[strings.ToLower(key)] = weight
	}
	return interests, nil
}

func renderResult(result model.PipelineResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}
	return nil
}
