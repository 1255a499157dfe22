package timegate

import (
	"time"

	"github.com/okian/trendboard/pkg/logger"
)

// Option applies a configuration option to the Gate.
type Option func(*Gate)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(g *Gate) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithInterval sets the re-evaluation period.
func WithInterval(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.interval = d
		}
	}
}

// WithClockStyle sets how DisplayTime is rendered.
func WithClockStyle(style ClockStyle) Option {
	return func(g *Gate) {
		if style == ClockStyle12h || style == ClockStyle24h {
			g.style = style
		}
	}
}

// WithLogger sets a custom logger for the gate.
func WithLogger(l logger.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithOnChange registers a hook called after the active flag flips.
func WithOnChange(fn func(Snapshot)) Option {
	return func(g *Gate) {
		g.onChange = fn
	}
}
