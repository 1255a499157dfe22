// Package analytics holds the dashboard's metrics pipeline: tier filtering,
// aggregation and top-N ranking over per-category engagement records.
package analytics

// CategoryMetric is one content category's engagement figures.
type CategoryMetric struct {
	Category         string  `json:"category"`
	AvgEngagement    float64 `json:"avg_engagement"`
	TotalImpressions int     `json:"total_impressions"`
	FollowerGrowth   int     `json:"follower_growth"`
}

// Totals sums the numeric fields of a filtered sequence.
type Totals struct {
	TotalEngagement     float64 `json:"total_engagement"`
	TotalImpressions    int     `json:"total_impressions"`
	TotalFollowerGrowth int     `json:"total_follower_growth"`
	Count               int     `json:"count"`
}

// RankedMetric is a CategoryMetric at a 1-based display position.
type RankedMetric struct {
	Rank int `json:"rank"`
	CategoryMetric
}

// Criteria selects records by engagement and impression tiers.
type Criteria struct {
	Engagement  Tier `json:"engagement"`
	Impressions Tier `json:"impressions"`
}

// Validate reports an unknown tier on either axis.
func (c Criteria) Validate() error {
	if !c.Engagement.Valid() {
		return unknownTier("engagement", c.Engagement)
	}
	if !c.Impressions.Valid() {
		return unknownTier("impressions", c.Impressions)
	}
	return nil
}
