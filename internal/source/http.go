package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kakashi3lite/newscurator/internal/cache"
	"github.com/kakashi3lite/newscurator/internal/model"
	"github.com/kakashi3lite/newscurator/internal/worker"
)

const defaultSourceCredibility = 0.5

// HTTPSource fetches articles from a fixed set of URLs, honoring robots.txt
// and per-host rate limits. Pages are cached so repeated invocations within
// the TTL do not refetch.
type HTTPSource struct {
	urls        []string
	fetcher     *Fetcher
	robots      *RobotsChecker
	limiter     *worker.Limiter
	pageCache   cache.Cache
	cacheTTL    time.Duration
	workers     int
	minBody     int
	minCred     float64
	credibility map[string]float64
	logger      *slog.Logger
	nowFunc     func() time.Time
}

// NewHTTPSource builds an HTTP source over the given URLs. pageCache may be
// nil to disable caching.
func NewHTTPSource(cfg model.Config, urls []string, pageCache cache.Cache, logger *slog.Logger) *HTTPSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPSource{
		urls:        urls,
		fetcher:     NewFetcher(cfg.HTTP),
		robots:      NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout),
		limiter:     worker.NewLimiter(cfg.HTTP.RatePerHost, cfg.HTTP.RateBurst),
		pageCache:   pageCache,
		cacheTTL:    cfg.Cache.MemoryTTL,
		workers:     cfg.Concurrency.StageWorkers,
		minBody:     cfg.Ingest.MinBodyLength,
		minCred:     cfg.Ingest.MinCredibility,
		credibility: make(map[string]float64),
		logger:      logger,
		nowFunc:     time.Now,
	}
}

// SetSourceCredibility registers a credibility rating for a host. Hosts
// without a rating get the default.
func (s *HTTPSource) SetSourceCredibility(host string, credibility float64) {
	s.credibility[host] = credibility
}

// FetchArticles fetches all configured URLs concurrently, keeps pages that
// parse into eligible articles, and filters by topic when topics are given.
func (s *HTTPSource) FetchArticles(ctx context.Context, topics []string, limit int) ([]model.Article, error) {
	urls := s.urls
	if limit > 0 && len(urls) > limit {
		urls = urls[:limit]
	}

	fetched := worker.Map(ctx, s.workers, urls, func(ctx context.Context, rawURL string) *model.Article {
		article, err := s.fetchOne(ctx, rawURL)
		if err != nil {
			s.logger.Warn("skipping article", "url", rawURL, "error", err)
			return nil
		}
		return article
	})

	articles := make([]model.Article, 0, len(fetched))
	for _, a := range fetched {
		if a == nil {
			continue
		}
		if len(topics) > 0 {
			matched := matchTopics(*a, topics)
			if len(matched) == 0 {
				continue
			}
			a.Topics = matched
		}
		articles = append(articles, *a)
	}

	return model.FilterEligible(articles, s.minBody, s.minCred), nil
}

func (s *HTTPSource) fetchOne(ctx context.Context, rawURL string) (*model.Article, error) {
	allowed, crawlDelay, err := s.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("disallowed by robots.txt")
	}
	if crawlDelay > 0 {
		select {
		case <-time.After(crawlDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	page, lastModified, err := s.fetchPage(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := ParseDocument(page)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	if doc.Title == "" {
		doc.Title = subjectFromURL(rawURL)
	}

	host := hostOf(rawURL)
	credibility, ok := s.credibility[host]
	if !ok {
		credibility = defaultSourceCredibility
	}

	publishedAt := lastModified
	if publishedAt.IsZero() {
		publishedAt = s.nowFunc()
	}

	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(rawURL)).String()
	article, err := model.NewArticle(id, doc.Title, doc.Body, host, publishedAt, credibility)
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// fetchPage returns the page HTML, consulting the cache before the network.
// The Last-Modified timestamp is only available on cache misses.
func (s *HTTPSource) fetchPage(ctx context.Context, rawURL string) (string, time.Time, error) {
	key := cache.FetchKey(rawURL)
	if s.pageCache != nil {
		if cached, ok := s.pageCache.Get(key); ok {
			return string(cached), time.Time{}, nil
		}
	}

	if err := s.limiter.Wait(ctx, rawURL); err != nil {
		return "", time.Time{}, err
	}

	result, err := s.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return "", time.Time{}, err
	}

	if s.pageCache != nil {
		if err := s.pageCache.Set(key, []byte(result.HTML), s.cacheTTL); err != nil {
			s.logger.Warn("cache write failed", "url", rawURL, "error", err)
		}
	}

	return result.HTML, result.LastModified, nil
}

func matchTopics(a model.Article, topics []string) []string {
	text := strings.ToLower(a.Text())
	tagged := make(map[string]bool, len(a.Topics))
	for _, t := range a.Topics {
		tagged[strings.ToLower(t)] = true
	}

	var matched []string
	for _, topic := range topics {
		lower := strings.ToLower(topic)
		if tagged[lower] || strings.Contains(text, lower) {
			matched = append(matched, topic)
		}
	}
	return matched
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}

// subjectFromURL de-slugifies the last path segment for pages with no title.
func subjectFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")
	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}
	return last
}
