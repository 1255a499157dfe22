package timegate

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownClockStyle = errors.New("unknown clock style")
)
