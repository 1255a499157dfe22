// Package types contains the read models shared by the service and the HTTP API.
package types

import (
	"github.com/okian/trendboard/internal/domain/analytics"
	"github.com/okian/trendboard/internal/domain/timegate"
)

// MetricsView is a filtered slice of the dataset with its totals.
type MetricsView struct {
	Filters analytics.Criteria         `json:"filters"`
	Items   []analytics.CategoryMetric `json:"items"`
	Totals  analytics.Totals           `json:"totals"`
}

// Overview is everything the dashboard page renders for one filter selection.
// Items and the two rankings are only populated while the gate is active.
type Overview struct {
	Gate          timegate.Snapshot          `json:"gate"`
	Filters       analytics.Criteria         `json:"filters"`
	Totals        analytics.Totals           `json:"totals"`
	Items         []analytics.CategoryMetric `json:"items"`
	TopPerformers []analytics.RankedMetric   `json:"top_performers"`
	GrowthLeaders []analytics.RankedMetric   `json:"growth_leaders"`
}

// Restricted reports whether the overview was built outside the live window.
func (o Overview) Restricted() bool {
	return !o.Gate.Active
}
