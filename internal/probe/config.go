package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	ReportFile string        // Optional JSON report path
	Verbose    bool          // Log every check, not only failures
}

// Result is the outcome of one check.
type Result struct {
	Name      string        `json:"name"`
	Passed    bool          `json:"passed"`
	Detail    string        `json:"detail,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
}

// Report summarises a probe run.
type Report struct {
	BaseURL   string        `json:"base_url"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration_ns"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Results   []Result      `json:"results"`
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	return r.Failed == 0 && len(r.Results) > 0
}
