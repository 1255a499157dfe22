package config_test

import (
	"testing"

	"github.com/okian/trendboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.GatePollSeconds, convey.ShouldEqual, 60)
			convey.So(cfg.BroadcastSeconds, convey.ShouldEqual, 60)
			convey.So(cfg.ClockStyle, convey.ShouldEqual, "12h")
			convey.So(cfg.TopN, convey.ShouldEqual, 5)
			convey.So(cfg.MaxResults, convey.ShouldEqual, 10)
			convey.So(cfg.DatasetFile, convey.ShouldBeEmpty)
		})

		convey.Convey("And the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
