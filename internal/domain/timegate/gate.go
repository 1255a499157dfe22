// Package timegate decides whether the dashboard shows live analytics, based
// on the time of day in India Standard Time.
package timegate

import (
	"context"
	"sync"
	"time"

	"github.com/okian/trendboard/pkg/logger"
	"github.com/okian/trendboard/pkg/metrics"
)

// Active hours in IST, both ends inclusive. 17 covers the whole 17:00-17:59
// hour even though the page labels the window "3PM-5PM".
const (
	ActiveFromHour = 15
	ActiveToHour   = 17
)

// DefaultInterval is the re-evaluation period.
const DefaultInterval = 60 * time.Second

// State is the gate's two-valued status.
type State uint8

const (
	Restricted State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "restricted"
}

// Snapshot is one evaluation of the gate.
type Snapshot struct {
	Active      bool      `json:"active"`
	DisplayTime string    `json:"display_time"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// State reports the snapshot as a State.
func (s Snapshot) State() State {
	if s.Active {
		return Active
	}
	return Restricted
}

// IsActiveHour reports whether an IST hour lies in the active window.
func IsActiveHour(hour int) bool {
	return hour >= ActiveFromHour && hour <= ActiveToHour
}

// Evaluate computes the gate for now. It is a pure function of its inputs.
func Evaluate(now time.Time, style ClockStyle) Snapshot {
	return Snapshot{
		Active:      IsActiveHour(now.In(IST).Hour()),
		DisplayTime: FormatClock(now, style),
		EvaluatedAt: now,
	}
}

// Gate owns the last evaluated snapshot and refreshes it on a ticker between
// Start and Stop.
type Gate struct {
	mu sync.RWMutex

	clock    Clock
	interval time.Duration
	style    ClockStyle
	logger   logger.Logger
	onChange func(Snapshot)

	last      Snapshot
	evaluated bool

	cancel context.CancelFunc
	done   chan struct{}
}

// New constructs a Gate with the system clock and a 60s period.
func New(opts ...Option) *Gate {
	g := &Gate{
		clock:    systemClock{},
		interval: DefaultInterval,
		style:    ClockStyle12h,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start evaluates once immediately, then on every tick until Stop is called
// or ctx is cancelled. Calling Start on a running gate does nothing.
func (g *Gate) Start(ctx context.Context) error {
	g.mu.Lock()
	if g.cancel != nil {
		g.mu.Unlock()
		return nil
	}
	if g.logger == nil {
		g.logger = logger.Get()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.done = make(chan struct{})
	done := g.done
	g.mu.Unlock()

	snap := g.evaluate(ctx)
	g.logger.Info(ctx, "time gate started",
		logger.Bool("active", snap.Active),
		logger.String("display_time", snap.DisplayTime),
		logger.Duration("interval", g.interval),
	)

	go g.run(loopCtx, done)
	return nil
}

// Stop halts the ticker and waits for the loop to exit. It is safe to call
// on a gate that was never started.
func (g *Gate) Stop() {
	g.mu.Lock()
	cancel, done := g.cancel, g.done
	g.cancel, g.done = nil, nil
	g.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the ticker loop is live. It turns false once Stop
// is called or the context given to Start is cancelled.
func (g *Gate) Running() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cancel != nil
}

// Current returns the last snapshot, evaluating first if none exists yet.
func (g *Gate) Current() Snapshot {
	g.mu.RLock()
	snap, ok := g.last, g.evaluated
	g.mu.RUnlock()
	if ok {
		return snap
	}
	return g.Refresh(context.Background())
}

// Refresh evaluates now, stores and returns the result.
func (g *Gate) Refresh(ctx context.Context) Snapshot {
	return g.evaluate(ctx)
}

// Interval is the configured re-evaluation period.
func (g *Gate) Interval() time.Duration { return g.interval }

// Style is the configured clock style.
func (g *Gate) Style() ClockStyle { return g.style }

// run loops until ctx ends. If ctx ended without Stop, the gate is marked
// stopped so Running reports false and Start can run it again.
func (g *Gate) run(ctx context.Context, done chan struct{}) {
	defer func() {
		g.mu.Lock()
		if g.done == done {
			g.cancel()
			g.cancel, g.done = nil, nil
		}
		g.mu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.evaluate(ctx)
		}
	}
}

func (g *Gate) evaluate(ctx context.Context) Snapshot {
	snap := Evaluate(g.clock.Now(), g.style)

	g.mu.Lock()
	prev, had := g.last, g.evaluated
	g.last, g.evaluated = snap, true
	log, onChange := g.logger, g.onChange
	g.mu.Unlock()

	metrics.RecordGateEvaluation()
	metrics.UpdateGateActive(snap.Active)

	if !had || prev.Active == snap.Active {
		return snap
	}

	metrics.RecordGateTransition(snap.State().String())
	if log != nil {
		log.Info(ctx, "time gate changed state",
			logger.String("from", prev.State().String()),
			logger.String("to", snap.State().String()),
			logger.String("display_time", snap.DisplayTime),
		)
	}
	if onChange != nil {
		onChange(snap)
	}
	return snap
}
