package probe

import (
	"fmt"
	"math"

	"github.com/okian/trendboard/internal/domain/analytics"
	"github.com/okian/trendboard/internal/domain/timegate"
)

const floatTolerance = 1e-9

// verifyFiltered checks that every item matches c and that items keep the
// relative order they have in ref.
func verifyFiltered(items []analytics.CategoryMetric, c analytics.Criteria, ref []analytics.CategoryMetric) error {
	pos := make(map[string]int, len(ref))
	for i, m := range ref {
		pos[m.Category] = i
	}
	last := -1
	for _, m := range items {
		if !c.Engagement.MatchEngagement(m.AvgEngagement) {
			return fmt.Errorf("%s: engagement %.2f outside tier %s", m.Category, m.AvgEngagement, c.Engagement)
		}
		if !c.Impressions.MatchImpressions(m.TotalImpressions) {
			return fmt.Errorf("%s: impressions %d outside tier %s", m.Category, m.TotalImpressions, c.Impressions)
		}
		p, ok := pos[m.Category]
		if !ok {
			continue
		}
		if p < last {
			return fmt.Errorf("%s: out of dataset order", m.Category)
		}
		last = p
	}
	return nil
}

// verifyTotals checks that t is the field-wise sum of items.
func verifyTotals(items []analytics.CategoryMetric, t analytics.Totals) error {
	want := analytics.Aggregate(items)
	switch {
	case t.Count != want.Count:
		return fmt.Errorf("count %d, want %d", t.Count, want.Count)
	case t.TotalImpressions != want.TotalImpressions:
		return fmt.Errorf("total_impressions %d, want %d", t.TotalImpressions, want.TotalImpressions)
	case t.TotalFollowerGrowth != want.TotalFollowerGrowth:
		return fmt.Errorf("total_follower_growth %d, want %d", t.TotalFollowerGrowth, want.TotalFollowerGrowth)
	case math.Abs(t.TotalEngagement-want.TotalEngagement) > floatTolerance:
		return fmt.Errorf("total_engagement %.4f, want %.4f", t.TotalEngagement, want.TotalEngagement)
	}
	return nil
}

func rankValue(m analytics.CategoryMetric, key analytics.RankKey) float64 {
	if key == analytics.ByGrowth {
		return float64(m.FollowerGrowth)
	}
	return m.AvgEngagement
}

// verifyRanking checks a top-n list against the filtered set it was built from:
// length, 1-based ranks, descending order, stable ties and that nothing
// omitted outranks the last entry.
func verifyRanking(filtered []analytics.CategoryMetric, ranked []analytics.RankedMetric, key analytics.RankKey, n int) error {
	if want := min(n, len(filtered)); len(ranked) != want {
		return fmt.Errorf("length %d, want %d", len(ranked), want)
	}
	pos := make(map[string]int, len(filtered))
	for i, m := range filtered {
		pos[m.Category] = i
	}

	included := make(map[string]bool, len(ranked))
	for i, r := range ranked {
		if r.Rank != i+1 {
			return fmt.Errorf("%s: rank %d at position %d", r.Category, r.Rank, i)
		}
		if _, ok := pos[r.Category]; !ok {
			return fmt.Errorf("%s: not in the filtered set", r.Category)
		}
		included[r.Category] = true
		if i == 0 {
			continue
		}
		prev, cur := rankValue(ranked[i-1].CategoryMetric, key), rankValue(r.CategoryMetric, key)
		if cur > prev {
			return fmt.Errorf("%s ranked below a smaller value", r.Category)
		}
		if cur == prev && pos[r.Category] < pos[ranked[i-1].Category] {
			return fmt.Errorf("%s: tie not in dataset order", r.Category)
		}
	}

	if len(ranked) == 0 {
		return nil
	}
	floor := rankValue(ranked[len(ranked)-1].CategoryMetric, key)
	for _, m := range filtered {
		if !included[m.Category] && rankValue(m, key) > floor {
			return fmt.Errorf("%s omitted but outranks the last entry", m.Category)
		}
	}
	return nil
}

// verifyGate checks that the snapshot is consistent with its own evaluation time.
func verifyGate(s timegate.Snapshot) error {
	if s.EvaluatedAt.IsZero() {
		return fmt.Errorf("evaluated_at missing")
	}
	if want := timegate.IsActiveHour(s.EvaluatedAt.In(timegate.IST).Hour()); s.Active != want {
		return fmt.Errorf("active=%t at %s, want %t", s.Active, s.EvaluatedAt.In(timegate.IST).Format("15:04"), want)
	}
	if s.DisplayTime != timegate.FormatClock(s.EvaluatedAt, timegate.ClockStyle12h) &&
		s.DisplayTime != timegate.FormatClock(s.EvaluatedAt, timegate.ClockStyle24h) {
		return fmt.Errorf("display_time %q does not match evaluated_at", s.DisplayTime)
	}
	return nil
}
