package analytics

import (
	"fmt"
	"strings"
)

// Tier is a bucket on one metric axis. The zero value is TierAll.
type Tier uint8

// Tier values. The set is closed; Valid rejects anything else.
const (
	TierAll Tier = iota
	TierHigh
	TierMedium
	TierLow
)

// Tier boundaries. High is inclusive of its lower bound, Medium is half-open
// and Low is strictly below the Medium lower bound.
const (
	EngagementHighMin   = 4.0
	EngagementMediumMin = 3.5

	ImpressionsHighMin   = 150_000
	ImpressionsMediumMin = 100_000
)

var tierNames = [...]string{
	TierAll:    "all",
	TierHigh:   "high",
	TierMedium: "medium",
	TierLow:    "low",
}

// Tiers lists every tier in declaration order.
func Tiers() []Tier {
	return []Tier{TierAll, TierHigh, TierMedium, TierLow}
}

// ParseTier maps a case-insensitive tier name to a Tier. An empty name is TierAll.
func ParseTier(s string) (Tier, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return TierAll, nil
	}
	for i, n := range tierNames {
		if n == name {
			return Tier(i), nil
		}
	}
	return TierAll, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// Valid reports whether t is one of the declared tiers.
func (t Tier) Valid() bool {
	return int(t) < len(tierNames)
}

func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
	return tierNames[t]
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, unknownTier("tier", t)
	}
	return []byte(tierNames[t]), nil
}

// UnmarshalText decodes a tier name.
func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MatchEngagement reports whether an average engagement rate falls in t.
func (t Tier) MatchEngagement(rate float64) bool {
	switch t {
	case TierAll:
		return true
	case TierHigh:
		return rate >= EngagementHighMin
	case TierMedium:
		return rate >= EngagementMediumMin && rate < EngagementHighMin
	case TierLow:
		return rate < EngagementMediumMin
	}
	panic(unknownTier("engagement", t))
}

// MatchImpressions reports whether an impression count falls in t.
func (t Tier) MatchImpressions(n int) bool {
	switch t {
	case TierAll:
		return true
	case TierHigh:
		return n >= ImpressionsHighMin
	case TierMedium:
		return n >= ImpressionsMediumMin && n < ImpressionsHighMin
	case TierLow:
		return n < ImpressionsMediumMin
	}
	panic(unknownTier("impressions", t))
}

func unknownTier(axis string, t Tier) error {
	return fmt.Errorf("%w: %s %s", ErrUnknownTier, axis, t)
}
