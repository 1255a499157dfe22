package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Default pipeline sizes.
const (
	DefaultResultLimit = 10
	DefaultTopN        = 5
)

// RankKey selects the field TopN orders by.
type RankKey uint8

const (
	ByEngagement RankKey = iota
	ByGrowth
)

func (k RankKey) String() string {
	switch k {
	case ByEngagement:
		return "engagement"
	case ByGrowth:
		return "growth"
	}
	return fmt.Sprintf("rank_key(%d)", uint8(k))
}

// ParseRankKey maps "engagement" or "growth" to a RankKey. Empty means ByEngagement.
func ParseRankKey(s string) (RankKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "engagement":
		return ByEngagement, nil
	case "growth", "follower_growth":
		return ByGrowth, nil
	}
	return ByEngagement, fmt.Errorf("%w: %q", ErrUnknownRankKey, s)
}

// Filter returns the items matching both tiers of c, in input order, capped at
// limit. A non-positive limit means DefaultResultLimit. The input is not
// modified.
func Filter(items []CategoryMetric, c Criteria, limit int) ([]CategoryMetric, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	out := make([]CategoryMetric, 0, min(len(items), limit))
	for _, it := range items {
		if len(out) == limit {
			break
		}
		if c.Engagement.MatchEngagement(it.AvgEngagement) && c.Impressions.MatchImpressions(it.TotalImpressions) {
			out = append(out, it)
		}
	}
	return out, nil
}

// Aggregate sums every numeric field of items. An empty input yields zero Totals.
func Aggregate(items []CategoryMetric) Totals {
	var t Totals
	for _, it := range items {
		t.TotalEngagement += it.AvgEngagement
		t.TotalImpressions += it.TotalImpressions
		t.TotalFollowerGrowth += it.FollowerGrowth
	}
	t.Count = len(items)
	return t
}

// TopN ranks items descending by key and keeps the first n. Equal keys keep
// their input order. The input is not reordered.
func TopN(items []CategoryMetric, key RankKey, n int) ([]RankedMetric, error) {
	switch key {
	case ByEngagement:
		return rank(items, engagementOf, n), nil
	case ByGrowth:
		return rank(items, growthOf, n), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRankKey, key)
}

func engagementOf(m CategoryMetric) float64 { return m.AvgEngagement }

func growthOf(m CategoryMetric) float64 { return float64(m.FollowerGrowth) }

// rank is TopN for a known field.
func rank(items []CategoryMetric, field func(CategoryMetric) float64, n int) []RankedMetric {
	if n <= 0 || len(items) == 0 {
		return []RankedMetric{}
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b CategoryMetric) int {
		return cmp.Compare(field(b), field(a))
	})

	n = min(n, len(sorted))
	out := make([]RankedMetric, n)
	for i := 0; i < n; i++ {
		out[i] = RankedMetric{Rank: i + 1, CategoryMetric: sorted[i]}
	}
	return out
}

// Pipeline binds a dataset to the filter and ranking operations.
type Pipeline struct {
	dataset     []CategoryMetric
	resultLimit int
	topN        int
}

// NewPipeline creates a Pipeline over a private copy of dataset.
func NewPipeline(dataset []CategoryMetric, opts ...Option) *Pipeline {
	p := &Pipeline{
		dataset:     slices.Clone(dataset),
		resultLimit: DefaultResultLimit,
		topN:        DefaultTopN,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ResultLimit is the cap applied by FilteredMetrics.
func (p *Pipeline) ResultLimit() int { return p.resultLimit }

// DefaultN is the ranking length used when callers pass n <= 0.
func (p *Pipeline) DefaultN() int { return p.topN }

// FilteredMetrics filters the bound dataset.
func (p *Pipeline) FilteredMetrics(c Criteria) ([]CategoryMetric, error) {
	return Filter(p.dataset, c, p.resultLimit)
}

// Aggregates sums a filtered sequence.
func (p *Pipeline) Aggregates(filtered []CategoryMetric) Totals {
	return Aggregate(filtered)
}

// TopByEngagement ranks filtered by average engagement. n <= 0 means DefaultN.
func (p *Pipeline) TopByEngagement(filtered []CategoryMetric, n int) []RankedMetric {
	return rank(filtered, engagementOf, p.n(n))
}

// TopByGrowth ranks filtered by follower growth. n <= 0 means DefaultN.
func (p *Pipeline) TopByGrowth(filtered []CategoryMetric, n int) []RankedMetric {
	return rank(filtered, growthOf, p.n(n))
}

func (p *Pipeline) n(n int) int {
	if n <= 0 {
		return p.topN
	}
	return n
}
