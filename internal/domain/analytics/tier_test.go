package analytics_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/trendboard/internal/domain/analytics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseTier(t *testing.T) {
	Convey("Given tier names", t, func() {
		Convey("When parsing known names in any case", func() {
			cases := map[string]analytics.Tier{
				"":        analytics.TierAll,
				"all":     analytics.TierAll,
				"HIGH":    analytics.TierHigh,
				" medium": analytics.TierMedium,
				"Low":     analytics.TierLow,
			}

			Convey("Then each maps to its tier", func() {
				for in, want := range cases {
					got, err := analytics.ParseTier(in)
					So(err, ShouldBeNil)
					So(got, ShouldEqual, want)
				}
			})
		})

		Convey("When parsing an unknown name", func() {
			_, err := analytics.ParseTier("extreme")

			Convey("Then ErrUnknownTier is returned", func() {
				So(errors.Is(err, analytics.ErrUnknownTier), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "extreme")
			})
		})
	})
}

func TestTierBoundaries(t *testing.T) {
	Convey("Given engagement boundaries", t, func() {
		So(analytics.TierHigh.MatchEngagement(4.0), ShouldBeTrue)
		So(analytics.TierHigh.MatchEngagement(3.99), ShouldBeFalse)
		So(analytics.TierMedium.MatchEngagement(3.5), ShouldBeTrue)
		So(analytics.TierMedium.MatchEngagement(4.0), ShouldBeFalse)
		So(analytics.TierLow.MatchEngagement(3.49), ShouldBeTrue)
		So(analytics.TierLow.MatchEngagement(3.5), ShouldBeFalse)
		So(analytics.TierAll.MatchEngagement(0), ShouldBeTrue)
	})

	Convey("Given impression boundaries", t, func() {
		So(analytics.TierHigh.MatchImpressions(150_000), ShouldBeTrue)
		So(analytics.TierHigh.MatchImpressions(149_999), ShouldBeFalse)
		So(analytics.TierMedium.MatchImpressions(100_000), ShouldBeTrue)
		So(analytics.TierMedium.MatchImpressions(150_000), ShouldBeFalse)
		So(analytics.TierLow.MatchImpressions(99_999), ShouldBeTrue)
		So(analytics.TierLow.MatchImpressions(100_000), ShouldBeFalse)
		So(analytics.TierAll.MatchImpressions(0), ShouldBeTrue)
	})

	Convey("Given an undeclared tier", t, func() {
		bad := analytics.Tier(42)

		Convey("Then it is not valid and never silently matches", func() {
			So(bad.Valid(), ShouldBeFalse)
			So(func() { bad.MatchEngagement(4.0) }, ShouldPanic)
			So(func() { bad.MatchImpressions(1) }, ShouldPanic)
		})
	})
}

func TestTierJSON(t *testing.T) {
	Convey("Given criteria encoded as JSON", t, func() {
		c := analytics.Criteria{Engagement: analytics.TierHigh, Impressions: analytics.TierLow}
		b, err := json.Marshal(c)
		So(err, ShouldBeNil)

		Convey("Then tiers are written by name", func() {
			So(string(b), ShouldEqual, `{"engagement":"high","impressions":"low"}`)
		})

		Convey("And decoding restores the criteria", func() {
			var back analytics.Criteria
			So(json.Unmarshal(b, &back), ShouldBeNil)
			So(back, ShouldResemble, c)
		})

		Convey("And unknown names are rejected on decode", func() {
			var back analytics.Criteria
			err := json.Unmarshal([]byte(`{"engagement":"huge"}`), &back)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParseRankKey(t *testing.T) {
	Convey("Given rank key names", t, func() {
		k, err := analytics.ParseRankKey("")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, analytics.ByEngagement)

		k, err = analytics.ParseRankKey("Growth")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, analytics.ByGrowth)
		So(k.String(), ShouldEqual, "growth")

		_, err = analytics.ParseRankKey("likes")
		So(errors.Is(err, analytics.ErrUnknownRankKey), ShouldBeTrue)
	})
}
