// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New builds a Config with defaults; Load layers file and env on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// GatePollSeconds is the time gate re-evaluation period.
	GatePollSeconds int `koanf:"gate_poll_seconds"`

	// ClockStyle renders the gate's display time: 12h or 24h.
	ClockStyle string `koanf:"clock_style"`

	// BroadcastSeconds is the websocket push period.
	BroadcastSeconds int `koanf:"broadcast_seconds"`

	// TopN is the default length of the ranking lists.
	TopN int `koanf:"top_n"`

	// MaxResults caps the number of categories a filter returns.
	MaxResults int `koanf:"max_results"`

	// DatasetFile optionally replaces the built-in seed with a YAML file.
	DatasetFile string `koanf:"dataset_file"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		GatePollSeconds:  60,
		ClockStyle:       "12h",
		BroadcastSeconds: 60,
		TopN:             5,
		MaxResults:       10,
	}
}
