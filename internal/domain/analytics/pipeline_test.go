package analytics_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/trendboard/internal/domain/analytics"
	. "github.com/smartystreets/goconvey/convey"
)

func names(items []analytics.CategoryMetric) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Category
	}
	return out
}

func rankedNames(items []analytics.RankedMetric) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Category
	}
	return out
}

// seedIndex maps a category to its position in the seed.
func seedIndex() map[string]int {
	idx := make(map[string]int)
	for i, it := range analytics.Seed() {
		idx[it.Category] = i
	}
	return idx
}

func TestFilter(t *testing.T) {
	Convey("Given the seed dataset", t, func() {
		data := analytics.Seed()

		Convey("When filtering with all/all", func() {
			out, err := analytics.Filter(data, analytics.Criteria{}, 10)

			Convey("Then the full seed is returned unchanged in order", func() {
				So(err, ShouldBeNil)
				So(out, ShouldResemble, analytics.Seed())
			})
		})

		Convey("When filtering high engagement across all impressions", func() {
			out, err := analytics.Filter(data, analytics.Criteria{Engagement: analytics.TierHigh}, 10)

			Convey("Then only rates >= 4.0 are kept in seed order", func() {
				So(err, ShouldBeNil)
				So(names(out), ShouldResemble, []string{"Technology", "Design", "Health", "Education", "Entertainment", "Sports"})
			})

			Convey("And the totals match the expected sums", func() {
				totals := analytics.Aggregate(out)
				So(totals.TotalEngagement, ShouldAlmostEqual, 25.8, 1e-9)
				So(totals.Count, ShouldEqual, 6)
			})
		})

		Convey("When filtering high impressions across all engagement", func() {
			out, err := analytics.Filter(data, analytics.Criteria{Impressions: analytics.TierHigh}, 10)

			Convey("Then only counts >= 150000 are kept", func() {
				So(err, ShouldBeNil)
				So(names(out), ShouldResemble, []string{"Business", "Entertainment", "Sports", "News"})
				So(analytics.Aggregate(out).Count, ShouldEqual, 4)
			})
		})

		Convey("When filtering medium engagement", func() {
			out, err := analytics.Filter(data, analytics.Criteria{Engagement: analytics.TierMedium}, 10)

			Convey("Then 4.0 is excluded and 3.5 <= rate < 4.0 are kept", func() {
				So(err, ShouldBeNil)
				So(names(out), ShouldResemble, []string{"Marketing", "Business", "Finance", "News"})
			})
		})

		Convey("When filtering low engagement", func() {
			out, err := analytics.Filter(data, analytics.Criteria{Engagement: analytics.TierLow}, 10)

			Convey("Then nothing matches and the result is empty, not nil", func() {
				So(err, ShouldBeNil)
				So(out, ShouldNotBeNil)
				So(out, ShouldBeEmpty)
			})
		})

		Convey("When filtering medium impressions", func() {
			out, err := analytics.Filter(data, analytics.Criteria{Impressions: analytics.TierMedium}, 10)

			Convey("Then 100000 <= count < 150000 are kept", func() {
				So(err, ShouldBeNil)
				So(names(out), ShouldResemble, []string{"Technology", "Finance"})
			})
		})

		Convey("When filtering low impressions with high engagement", func() {
			out, err := analytics.Filter(data, analytics.Criteria{Engagement: analytics.TierHigh, Impressions: analytics.TierLow}, 10)

			Convey("Then both predicates apply", func() {
				So(err, ShouldBeNil)
				So(names(out), ShouldResemble, []string{"Design", "Health", "Education"})
			})
		})

		Convey("When the limit is smaller than the match count", func() {
			out, err := analytics.Filter(data, analytics.Criteria{}, 3)

			Convey("Then the first matches are kept", func() {
				So(err, ShouldBeNil)
				So(names(out), ShouldResemble, []string{"Technology", "Marketing", "Design"})
			})
		})

		Convey("When the limit is not positive", func() {
			out, err := analytics.Filter(data, analytics.Criteria{}, 0)

			Convey("Then the default cap applies", func() {
				So(err, ShouldBeNil)
				So(len(out), ShouldEqual, analytics.DefaultResultLimit)
			})
		})

		Convey("When the criteria carry an undeclared tier", func() {
			out, err := analytics.Filter(data, analytics.Criteria{Engagement: analytics.Tier(9)}, 10)

			Convey("Then the filter is rejected", func() {
				So(out, ShouldBeNil)
				So(errors.Is(err, analytics.ErrUnknownTier), ShouldBeTrue)
			})
		})
	})

	Convey("Given a dataset larger than the cap", t, func() {
		var data []analytics.CategoryMetric
		for i := 0; i < 25; i++ {
			data = append(data, analytics.CategoryMetric{
				Category:         fmt.Sprintf("c%02d", i),
				AvgEngagement:    4.5,
				TotalImpressions: 200_000,
			})
		}

		Convey("When filtering everything", func() {
			out, err := analytics.Filter(data, analytics.Criteria{}, analytics.DefaultResultLimit)

			Convey("Then at most ten records are returned", func() {
				So(err, ShouldBeNil)
				So(len(out), ShouldEqual, 10)
				So(out[0].Category, ShouldEqual, "c00")
				So(out[9].Category, ShouldEqual, "c09")
			})
		})
	})
}

func TestFilterAllCombinations(t *testing.T) {
	Convey("Given every tier combination", t, func() {
		data := analytics.Seed()
		idx := seedIndex()

		for _, e := range analytics.Tiers() {
			for _, i := range analytics.Tiers() {
				c := analytics.Criteria{Engagement: e, Impressions: i}
				out, err := analytics.Filter(data, c, 10)
				So(err, ShouldBeNil)
				So(len(out), ShouldBeLessThanOrEqualTo, 10)

				prev := -1
				for _, it := range out {
					So(e.MatchEngagement(it.AvgEngagement), ShouldBeTrue)
					So(i.MatchImpressions(it.TotalImpressions), ShouldBeTrue)
					So(idx[it.Category], ShouldBeGreaterThan, prev)
					prev = idx[it.Category]
				}

				kept := make(map[string]bool, len(out))
				for _, it := range out {
					kept[it.Category] = true
				}
				for _, it := range data {
					if e.MatchEngagement(it.AvgEngagement) && i.MatchImpressions(it.TotalImpressions) {
						So(kept[it.Category], ShouldBeTrue)
					}
				}
			}
		}
	})
}

func TestAggregate(t *testing.T) {
	Convey("Given aggregation", t, func() {
		Convey("When the input is empty", func() {
			totals := analytics.Aggregate(nil)

			Convey("Then every field is zero", func() {
				So(totals, ShouldResemble, analytics.Totals{})
			})
		})

		Convey("When the input is the full seed", func() {
			totals := analytics.Aggregate(analytics.Seed())

			Convey("Then fields are elementwise sums", func() {
				So(totals.TotalEngagement, ShouldAlmostEqual, 40.8, 1e-9)
				So(totals.TotalImpressions, ShouldEqual, 1_405_000)
				So(totals.TotalFollowerGrowth, ShouldEqual, 7_940)
				So(totals.Count, ShouldEqual, 10)
			})
		})

		Convey("When the input is any filtered subsequence", func() {
			for _, e := range analytics.Tiers() {
				for _, i := range analytics.Tiers() {
					out, err := analytics.Filter(analytics.Seed(), analytics.Criteria{Engagement: e, Impressions: i}, 10)
					So(err, ShouldBeNil)

					var eng float64
					var imp, growth int
					for _, it := range out {
						eng += it.AvgEngagement
						imp += it.TotalImpressions
						growth += it.FollowerGrowth
					}
					totals := analytics.Aggregate(out)
					So(totals.TotalEngagement, ShouldAlmostEqual, eng, 1e-9)
					So(totals.TotalImpressions, ShouldEqual, imp)
					So(totals.TotalFollowerGrowth, ShouldEqual, growth)
					So(totals.Count, ShouldEqual, len(out))
				}
			}
		})
	})
}

func TestTopN(t *testing.T) {
	Convey("Given the seed dataset", t, func() {
		data := analytics.Seed()

		Convey("When ranking by engagement", func() {
			out, err := analytics.TopN(data, analytics.ByEngagement, 5)

			Convey("Then the five highest rates come first with 1-based ranks", func() {
				So(err, ShouldBeNil)
				So(rankedNames(out), ShouldResemble, []string{"Entertainment", "Design", "Education", "Technology", "Health"})
				for i, r := range out {
					So(r.Rank, ShouldEqual, i+1)
				}
			})

			Convey("And the input is left in seed order", func() {
				So(data, ShouldResemble, analytics.Seed())
			})
		})

		Convey("When ranking by growth", func() {
			out, err := analytics.TopN(data, analytics.ByGrowth, 5)

			Convey("Then the five largest gains come first", func() {
				So(err, ShouldBeNil)
				So(rankedNames(out), ShouldResemble, []string{"Entertainment", "Sports", "Business", "Technology", "News"})
			})
		})

		Convey("When n exceeds the input length", func() {
			out, err := analytics.TopN(data[:3], analytics.ByEngagement, 5)

			Convey("Then every item is ranked", func() {
				So(err, ShouldBeNil)
				So(len(out), ShouldEqual, 3)
			})
		})

		Convey("When the input is empty", func() {
			out, err := analytics.TopN(nil, analytics.ByGrowth, 5)

			Convey("Then the ranking is empty", func() {
				So(err, ShouldBeNil)
				So(out, ShouldBeEmpty)
			})
		})

		Convey("When n is zero", func() {
			out, err := analytics.TopN(data, analytics.ByGrowth, 0)

			Convey("Then the ranking is empty", func() {
				So(err, ShouldBeNil)
				So(out, ShouldBeEmpty)
			})
		})

		Convey("When the key is unknown", func() {
			_, err := analytics.TopN(data, analytics.RankKey(7), 5)

			Convey("Then an error is returned", func() {
				So(errors.Is(err, analytics.ErrUnknownRankKey), ShouldBeTrue)
			})
		})
	})

	Convey("Given records with equal keys", t, func() {
		data := []analytics.CategoryMetric{
			{Category: "first", AvgEngagement: 4.0, FollowerGrowth: 100},
			{Category: "top", AvgEngagement: 4.9, FollowerGrowth: 500},
			{Category: "second", AvgEngagement: 4.0, FollowerGrowth: 100},
			{Category: "third", AvgEngagement: 4.0, FollowerGrowth: 100},
		}

		Convey("When ranking by engagement", func() {
			out, err := analytics.TopN(data, analytics.ByEngagement, 4)

			Convey("Then ties keep their input order", func() {
				So(err, ShouldBeNil)
				So(rankedNames(out), ShouldResemble, []string{"top", "first", "second", "third"})
			})
		})

		Convey("When ranking by growth", func() {
			out, err := analytics.TopN(data, analytics.ByGrowth, 3)

			Convey("Then ties keep their input order", func() {
				So(err, ShouldBeNil)
				So(rankedNames(out), ShouldResemble, []string{"top", "first", "second"})
			})
		})
	})

	Convey("Given every filtered subsequence", t, func() {
		for _, e := range analytics.Tiers() {
			for _, i := range analytics.Tiers() {
				out, err := analytics.Filter(analytics.Seed(), analytics.Criteria{Engagement: e, Impressions: i}, 10)
				So(err, ShouldBeNil)

				top, err := analytics.TopN(out, analytics.ByEngagement, 5)
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, min(5, len(out)))
				for k := 1; k < len(top); k++ {
					So(top[k-1].AvgEngagement, ShouldBeGreaterThanOrEqualTo, top[k].AvgEngagement)
				}
			}
		}
	})
}

func TestPipeline(t *testing.T) {
	Convey("Given a pipeline over the seed", t, func() {
		p := analytics.NewPipeline(analytics.Seed(), analytics.WithResultLimit(4), analytics.WithTopN(2))

		Convey("Then the options are applied", func() {
			So(p.ResultLimit(), ShouldEqual, 4)
			So(p.DefaultN(), ShouldEqual, 2)
		})

		Convey("When querying filtered metrics", func() {
			out, err := p.FilteredMetrics(analytics.Criteria{Engagement: analytics.TierHigh})

			Convey("Then the result limit caps the output", func() {
				So(err, ShouldBeNil)
				So(names(out), ShouldResemble, []string{"Technology", "Design", "Health", "Education"})
			})

			Convey("And rankings fall back to the default length", func() {
				So(rankedNames(p.TopByEngagement(out, 0)), ShouldResemble, []string{"Design", "Education"})
				So(rankedNames(p.TopByGrowth(out, 3)), ShouldResemble, []string{"Technology", "Design", "Health"})
			})

			Convey("And aggregates sum the filtered records", func() {
				So(p.Aggregates(out).Count, ShouldEqual, 4)
			})
		})

		Convey("When rankings are built from a filtered slice", func() {
			out, _ := p.FilteredMetrics(analytics.Criteria{})
			before := names(out)
			_ = p.TopByGrowth(out, 0)

			Convey("Then the slice keeps its order", func() {
				So(names(out), ShouldResemble, before)
			})
		})
	})

	Convey("Given a pipeline built from a caller's slice", t, func() {
		ds := analytics.Seed()
		p := analytics.NewPipeline(ds)

		Convey("When the caller mutates the slice", func() {
			ds[0].Category = "changed"
			out, err := p.FilteredMetrics(analytics.Criteria{})

			Convey("Then the pipeline is unaffected", func() {
				So(err, ShouldBeNil)
				So(out[0].Category, ShouldEqual, "Technology")
			})
		})
	})

	Convey("Given a pipeline with invalid options", t, func() {
		p := analytics.NewPipeline(nil, analytics.WithResultLimit(-1), analytics.WithTopN(0))

		Convey("Then defaults are kept", func() {
			So(p.ResultLimit(), ShouldEqual, analytics.DefaultResultLimit)
			So(p.DefaultN(), ShouldEqual, analytics.DefaultTopN)
		})
	})
}
