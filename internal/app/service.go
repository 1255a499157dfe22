// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/trendboard/internal/adapters/repository"
	"github.com/okian/trendboard/internal/domain/analytics"
	"github.com/okian/trendboard/internal/domain/timegate"
	"github.com/okian/trendboard/internal/domain/types"
	"github.com/okian/trendboard/pkg/logger"
	"github.com/okian/trendboard/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

const gateRefreshKey = "gate"

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	pipeline *analytics.Pipeline
	gate     *timegate.Gate
	refresh  singleflight.Group

	// Configuration
	datasetFile  string
	resultLimit  int
	topN         int
	gateInterval time.Duration
	clockStyle   timegate.ClockStyle
	clock        timegate.Clock

	// State
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		resultLimit:  analytics.DefaultResultLimit,
		topN:         analytics.DefaultTopN,
		gateInterval: timegate.DefaultInterval,
		clockStyle:   timegate.ClockStyle12h,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset, builds the pipeline and starts the time gate.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...")

	if s.store == nil {
		store, err := repository.Open(ctx, s.datasetFile)
		if err != nil {
			return fmt.Errorf("open dataset: %w", err)
		}
		s.store = store
	}
	dataset, err := s.store.All(ctx)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	s.pipeline = s.newPipeline(dataset)

	gateOpts := []timegate.Option{
		timegate.WithInterval(s.gateInterval),
		timegate.WithClockStyle(s.clockStyle),
		timegate.WithLogger(s.logger.Named("gate")),
	}
	if s.clock != nil {
		gateOpts = append(gateOpts, timegate.WithClock(s.clock))
	}
	s.gate = timegate.New(gateOpts...)
	if err := s.gate.Start(ctx); err != nil {
		return fmt.Errorf("start gate: %w", err)
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("categories", len(dataset)),
		logger.Int("resultLimit", s.resultLimit),
		logger.Int("topN", s.topN),
		logger.Duration("gateInterval", s.gateInterval),
	)

	return nil
}

// Stop shuts down the time gate.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping dashboard service...")

	if s.gate != nil {
		s.gate.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

func (s *Service) newPipeline(dataset []analytics.CategoryMetric) *analytics.Pipeline {
	return analytics.NewPipeline(dataset,
		analytics.WithResultLimit(s.resultLimit),
		analytics.WithTopN(s.topN),
	)
}

// queries returns the started pipeline, or an empty one carrying the
// configured sizes so ranking and sizing work before Start.
func (s *Service) queries() *analytics.Pipeline {
	s.mu.RLock()
	p := s.pipeline
	s.mu.RUnlock()
	if p != nil {
		return p
	}
	return s.newPipeline(nil)
}

func (s *Service) components() (*analytics.Pipeline, *timegate.Gate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pipeline == nil {
		return nil, nil, ErrNotStarted
	}
	return s.pipeline, s.gate, nil
}

// FilteredMetrics returns the categories matching c, in dataset order.
func (s *Service) FilteredMetrics(_ context.Context, c analytics.Criteria) ([]analytics.CategoryMetric, error) {
	p, _, err := s.components()
	if err != nil {
		return nil, err
	}
	items, err := p.FilteredMetrics(c)
	if err != nil {
		return nil, err
	}
	metrics.RecordQuery(c.Engagement.String(), c.Impressions.String(), len(items))
	return items, nil
}

// Aggregates sums a filtered sequence.
func (s *Service) Aggregates(filtered []analytics.CategoryMetric) analytics.Totals {
	return s.queries().Aggregates(filtered)
}

// TopByEngagement ranks filtered by average engagement. n <= 0 means the configured default.
func (s *Service) TopByEngagement(filtered []analytics.CategoryMetric, n int) []analytics.RankedMetric {
	metrics.RecordRanking(analytics.ByEngagement.String())
	return s.queries().TopByEngagement(filtered, n)
}

// TopByGrowth ranks filtered by follower growth. n <= 0 means the configured default.
func (s *Service) TopByGrowth(filtered []analytics.CategoryMetric, n int) []analytics.RankedMetric {
	metrics.RecordRanking(analytics.ByGrowth.String())
	return s.queries().TopByGrowth(filtered, n)
}

// Top filters by c and ranks by key.
func (s *Service) Top(ctx context.Context, c analytics.Criteria, key analytics.RankKey, n int) ([]analytics.RankedMetric, error) {
	items, err := s.FilteredMetrics(ctx, c)
	if err != nil {
		return nil, err
	}
	switch key {
	case analytics.ByEngagement:
		return s.TopByEngagement(items, n), nil
	case analytics.ByGrowth:
		return s.TopByGrowth(items, n), nil
	}
	return nil, fmt.Errorf("%w: %s", analytics.ErrUnknownRankKey, key)
}

// GateState evaluates the gate at now with the configured clock style.
func (s *Service) GateState(now time.Time) timegate.Snapshot {
	return timegate.Evaluate(now, s.clockStyle)
}

// CurrentGate re-evaluates the running gate and returns the fresh snapshot.
// Concurrent callers share one evaluation.
func (s *Service) CurrentGate(ctx context.Context) timegate.Snapshot {
	_, g, err := s.components()
	if err != nil || g == nil {
		if s.clock == nil {
			return s.GateState(time.Now())
		}
		return s.GateState(s.clock.Now())
	}
	v, _, _ := s.refresh.Do(gateRefreshKey, func() (any, error) {
		return g.Refresh(ctx), nil
	})
	snap, _ := v.(timegate.Snapshot)
	return snap
}

// Overview assembles the page model: totals always, chart data and rankings
// only while the gate is active.
func (s *Service) Overview(ctx context.Context, c analytics.Criteria) (types.Overview, error) {
	items, err := s.FilteredMetrics(ctx, c)
	if err != nil {
		return types.Overview{}, err
	}

	ov := types.Overview{
		Gate:    s.CurrentGate(ctx),
		Filters: c,
		Totals:  s.Aggregates(items),
	}
	if !ov.Gate.Active {
		return ov, nil
	}

	ov.Items = items
	ov.TopPerformers = s.TopByEngagement(items, 0)
	ov.GrowthLeaders = s.TopByGrowth(items, 0)
	return ov, nil
}

// MaxResults is the filter cap, also the largest ranking length allowed.
func (s *Service) MaxResults() int { return s.queries().ResultLimit() }

// DefaultTopN is the ranking length used when none is requested.
func (s *Service) DefaultTopN() int { return s.queries().DefaultN() }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"resultLimit": s.resultLimit,
		"topN":        s.topN,
		"gateSeconds": int(s.gateInterval / time.Second),
		"clockStyle":  string(s.clockStyle),
	}

	if s.started {
		snap := s.gate.Current()
		stats["categories"] = s.store.Count(context.Background())
		stats["gateActive"] = snap.Active
		stats["gateDisplayTime"] = snap.DisplayTime
		stats["gateEvaluatedAt"] = snap.EvaluatedAt.Format(time.RFC3339)
		stats["uptimeSeconds"] = int(time.Since(s.startedAt) / time.Second)
	}

	return stats
}
