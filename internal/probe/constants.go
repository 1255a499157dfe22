package probe

// HTTP status code constants.
const (
	StatusOK         = 200
	StatusBadRequest = 400
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// File permission constants.
const (
	logFilePermission    = 0o600
	reportFilePermission = 0o600
	directoryPermission  = 0o750
)
