package analytics

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownTier    = errors.New("unknown tier")
	ErrUnknownRankKey = errors.New("unknown rank key")
)
