package analytics

// seed is the built-in dataset. Order is significant: filtering preserves it
// and ranking breaks ties by it.
var seed = [...]CategoryMetric{
	{Category: "Technology", AvgEngagement: 4.2, TotalImpressions: 125_000, FollowerGrowth: 850},
	{Category: "Marketing", AvgEngagement: 3.8, TotalImpressions: 98_000, FollowerGrowth: 620},
	{Category: "Design", AvgEngagement: 4.5, TotalImpressions: 87_000, FollowerGrowth: 740},
	{Category: "Business", AvgEngagement: 3.9, TotalImpressions: 156_000, FollowerGrowth: 920},
	{Category: "Finance", AvgEngagement: 3.6, TotalImpressions: 134_000, FollowerGrowth: 560},
	{Category: "Health", AvgEngagement: 4.1, TotalImpressions: 92_000, FollowerGrowth: 680},
	{Category: "Education", AvgEngagement: 4.3, TotalImpressions: 78_000, FollowerGrowth: 590},
	{Category: "Entertainment", AvgEngagement: 4.7, TotalImpressions: 203_000, FollowerGrowth: 1240},
	{Category: "Sports", AvgEngagement: 4.0, TotalImpressions: 187_000, FollowerGrowth: 980},
	{Category: "News", AvgEngagement: 3.7, TotalImpressions: 245_000, FollowerGrowth: 760},
}

// Seed returns a fresh copy of the built-in dataset.
func Seed() []CategoryMetric {
	out := make([]CategoryMetric, len(seed))
	copy(out, seed[:])
	return out
}
