// Package service orchestrates automatic route search: exclusion filtering,
// transit computation, k-shortest path extraction and result caching.
package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vanshika/starroute/internal/domain"
	"github.com/vanshika/starroute/internal/metrics"
	"github.com/vanshika/starroute/internal/routecache"
	"github.com/vanshika/starroute/internal/routegraph"
	"github.com/vanshika/starroute/internal/transit"
)

// DefaultMaxStars is the largest pruned star set a search accepts.
const DefaultMaxStars = 1500

// ResultCache stores successful search results by normalized query key.
type ResultCache interface {
	Get(key routecache.Key) (domain.SearchResult, bool)
	Put(key routecache.Key, result domain.SearchResult)
	Clear()
	ResetStatistics()
	Statistics() routecache.Stats
}

// RouteFindingService runs one route query end to end. A single call never
// spawns goroutines; only the cache is shared between concurrent callers.
type RouteFindingService struct {
	provider transit.Provider
	cache    ResultCache
	logger   *slog.Logger
	metrics  *metrics.Routing
	maxStars int
	nowFn    func() time.Time
}

// NewRouteFindingService wires the service to a transit provider. Caching
// stays disabled until WithCache is called.
func NewRouteFindingService(provider transit.Provider, logger *slog.Logger) *RouteFindingService {
	if provider == nil {
		provider = transit.Auto{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RouteFindingService{
		provider: provider,
		logger:   logger,
		maxStars: DefaultMaxStars,
		nowFn:    time.Now,
	}
}

// WithCache enables result caching.
func (s *RouteFindingService) WithCache(cache ResultCache) {
	s.cache = cache
}

// WithMetrics exports search outcomes and latency.
func (s *RouteFindingService) WithMetrics(m *metrics.Routing) {
	s.metrics = m
}

// WithMaxStars overrides the star limit. Zero or less disables the check.
func (s *RouteFindingService) WithMaxStars(limit int) {
	s.maxStars = limit
}

// WithClock overrides the time provider (used primarily in tests).
func (s *RouteFindingService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// FindRoutes searches for up to query.NumberOfPaths routes between the query
// endpoints over stars. Every failure, including a panic inside the pipeline,
// is reported through the returned result.
func (s *RouteFindingService) FindRoutes(ctx context.Context, query domain.RouteQuery, stars []domain.StarNode) (result domain.SearchResult) {
	start := s.nowFn()
	outcome := metrics.OutcomeFailure

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("route finding panicked", "origin", query.Origin, "destination", query.Destination, "panic", r)
			result = domain.Failed("route finding failed: %v", r)
			outcome = metrics.OutcomeFailure
		}
		elapsed := s.nowFn().Sub(start)
		s.metrics.ObserveSearch(outcome, elapsed, len(result.Paths))
		if result.Success {
			s.logger.Info("route search completed",
				"origin", query.Origin,
				"destination", query.Destination,
				"paths", len(result.Paths),
				"cached", outcome == metrics.OutcomeCacheHit,
				"duration_ms", elapsed.Milliseconds(),
			)
			return
		}
		s.logger.Warn("route search failed",
			"origin", query.Origin,
			"destination", query.Destination,
			"reason", result.Message,
		)
	}()

	result, cached := s.find(ctx, query, stars)
	switch {
	case cached:
		outcome = metrics.OutcomeCacheHit
	case result.Success:
		outcome = metrics.OutcomeSuccess
	}
	return result
}

func (s *RouteFindingService) find(ctx context.Context, query domain.RouteQuery, stars []domain.StarNode) (domain.SearchResult, bool) {
	if err := query.Validate(); err != nil {
		return domain.Failed("%v", err), false
	}
	origin := strings.TrimSpace(query.Origin)
	destination := strings.TrimSpace(query.Destination)

	if _, ok := domain.FindStar(stars, origin); !ok {
		return domain.Failed("origin star %q is not in the star list", origin), false
	}
	if _, ok := domain.FindStar(stars, destination); !ok {
		return domain.Failed("destination star %q is not in the star list", destination), false
	}

	pruned := PruneStars(stars, query.SpectralExclusions, query.PolityExclusions)
	s.logger.Debug("pruned stars", "before", len(stars), "after", len(pruned))

	if _, ok := domain.FindStar(pruned, origin); !ok {
		return domain.Failed("origin star %q was excluded by the current filters", origin), false
	}
	if _, ok := domain.FindStar(pruned, destination); !ok {
		return domain.Failed("destination star %q was excluded by the current filters", destination), false
	}
	if s.maxStars > 0 && len(pruned) > s.maxStars {
		return domain.Failed("too many stars to route: %d exceeds limit %d", len(pruned), s.maxStars), false
	}

	key := routecache.NewKey(query, pruned)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			s.logger.Debug("route cache hit", "key", key.String())
			return cached, true
		}
	}

	if err := ctx.Err(); err != nil {
		return domain.Failed("route finding failed: %v", err), false
	}

	bounds := transit.Bounds{Lower: query.LowerBound, Upper: query.UpperBound}
	transits, err := s.provider.CalculateDistances(ctx, bounds, pruned)
	if err != nil {
		return domain.Failed("route finding failed: %v", err), false
	}
	if len(transits) == 0 {
		return domain.Failed("no transits within bounds %s", bounds), false
	}

	graph := routegraph.Build(transits)
	s.logger.Debug("route graph built", "transits", len(transits), "vertices", graph.VertexCount(), "edges", graph.EdgeCount())
	if !graph.IsConnected(origin, destination) {
		return domain.Failed("no path exists between %s and %s", origin, destination), false
	}

	if err := ctx.Err(); err != nil {
		return domain.Failed("route finding failed: %v", err), false
	}

	paths := graph.KShortestPaths(origin, destination, query.NumberOfPaths)
	if len(paths) == 0 {
		return domain.Failed("no path exists between %s and %s", origin, destination), false
	}

	result := domain.Succeeded(rankPaths(query, graph, paths, pruned))
	if s.cache != nil {
		s.cache.Put(key, result)
	}
	return result, false
}

// CacheEnabled reports whether results are being cached.
func (s *RouteFindingService) CacheEnabled() bool {
	return s.cache != nil
}

// ClearCache drops every cached result.
func (s *RouteFindingService) ClearCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

// ResetCacheStatistics zeroes the cache hit and miss counters.
func (s *RouteFindingService) ResetCacheStatistics() {
	if s.cache != nil {
		s.cache.ResetStatistics()
	}
}

// CacheStatistics returns the current cache snapshot, or zero values when
// caching is disabled.
func (s *RouteFindingService) CacheStatistics() routecache.Stats {
	if s.cache == nil {
		return routecache.Stats{}
	}
	return s.cache.Statistics()
}
