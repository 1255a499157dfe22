// Package probe checks a running trendboard service over HTTP: filters keep
// dataset order and tier bounds, totals add up, rankings are sorted and
// stable, and the time gate agrees with its own timestamp.
package probe

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/trendboard/pkg/logger"
)

// SetupLogging initialises the logger to write to stdout and, when logFile is
// set, to that file as well.
func SetupLogging(logFile, format string) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.Init(logger.WithFormat(format), logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return nil
}

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	os.Stdout.WriteString(`Trendboard Probe
================

Checks a running trendboard service against its documented behaviour.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -report string
        Write a JSON report to this file
  -log string
        Also write logs to this file
  -format string
        Log format: text or json (default "text")
  -verbose
        Log passing checks too
  -help
        Show this help message

Examples:
  go run ./cmd/probe
  go run ./cmd/probe -url http://localhost:8080 -report out/probe.json
`)
}
