package service

import (
	"time"

	"github.com/okian/trendboard/internal/adapters/repository"
	"github.com/okian/trendboard/internal/domain/timegate"
	"github.com/okian/trendboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDatasetFile loads categories from a YAML file instead of the seed.
func WithDatasetFile(path string) Option {
	return func(s *Service) {
		s.datasetFile = path
	}
}

// WithStore injects a ready dataset store; it takes precedence over WithDatasetFile.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithResultLimit caps filtered results.
func WithResultLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.resultLimit = n
		}
	}
}

// WithTopN sets the default ranking length.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithGateInterval sets the time gate re-evaluation period.
func WithGateInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.gateInterval = d
		}
	}
}

// WithClockStyle sets the gate's display format.
func WithClockStyle(style timegate.ClockStyle) Option {
	return func(s *Service) {
		if style != "" {
			s.clockStyle = style
		}
	}
}

// WithClock replaces the wall clock used by the gate.
func WithClock(c timegate.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}
