package timegate

import (
	"fmt"
	"strings"
	"time"
)

// IST is the reference timezone, a fixed UTC+05:30 offset.
var IST = time.FixedZone("IST", 5*60*60+30*60) //nolint:gochecknoglobals // immutable zone

// Clock abstracts wall-clock reads so the gate can be driven in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ClockStyle selects how DisplayTime is rendered.
type ClockStyle string

const (
	// ClockStyle12h renders "03:05 pm".
	ClockStyle12h ClockStyle = "12h"
	// ClockStyle24h renders "15:05".
	ClockStyle24h ClockStyle = "24h"
)

// ParseClockStyle accepts "12h" or "24h" in any case. Empty means 12h.
func ParseClockStyle(s string) (ClockStyle, error) {
	switch ClockStyle(strings.ToLower(strings.TrimSpace(s))) {
	case "", ClockStyle12h:
		return ClockStyle12h, nil
	case ClockStyle24h:
		return ClockStyle24h, nil
	}
	return ClockStyle12h, fmt.Errorf("%w: %q", ErrUnknownClockStyle, s)
}

// FormatClock renders t's hour and minute in IST.
func FormatClock(t time.Time, style ClockStyle) string {
	local := t.In(IST)
	if style == ClockStyle24h {
		return local.Format("15:04")
	}
	return local.Format("03:04 pm")
}
