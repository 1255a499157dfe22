package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/trendboard/internal/domain/types"
	"github.com/okian/trendboard/pkg/logger"
)

// Run probes the service at config.BaseURL and returns the report. The
// returned error is non-nil when the service is unreachable or a check fails.
func Run(ctx context.Context, config *Config) (*Report, error) {
	log := logger.Named("probe")
	report := &Report{BaseURL: config.BaseURL, StartTime: time.Now()}

	log.Info(ctx, "starting trendboard probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// The unfiltered dataset anchors every ordering check.
	var all types.MetricsView
	if _, err := client.getJSON(ctx, "/api/metrics", &all); err != nil {
		return report, fmt.Errorf("service unreachable: %w", err)
	}
	log.Info(ctx, "dataset fetched", logger.Int("categories", len(all.Items)))

	report.Results = runChecks(ctx, config, client, buildChecks(all.Items))

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	for _, r := range report.Results {
		if r.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
	}

	log.Info(ctx, "probe finished",
		logger.Int("passed", report.Passed),
		logger.Int("failed", report.Failed),
		logger.Duration("duration", report.Duration))

	if config.ReportFile != "" {
		if err := saveReport(config.ReportFile, report); err != nil {
			log.Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	if !report.OK() {
		return report, fmt.Errorf("%d of %d checks failed", report.Failed, len(report.Results))
	}
	return report, nil
}

// runChecks executes checks with a fixed worker pool. Results keep the
// order of checks.
func runChecks(ctx context.Context, config *Config, client *HTTPClient, checks []check) []Result {
	log := logger.Named("probe")
	results := make([]Result, len(checks))

	workers := config.Workers
	if workers < 1 {
		workers = 1
	}

	indexChan := make(chan int, workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range indexChan {
				c := checks[index]
				start := time.Now()
				id, err := c.run(ctx, client)
				res := Result{Name: c.name, Passed: err == nil, RequestID: id, Duration: time.Since(start)}
				if err != nil {
					res.Detail = err.Error()
					log.Warn(ctx, "check failed",
						logger.String("check", c.name),
						logger.String("requestId", id),
						logger.Error(err))
				} else if config.Verbose {
					log.Info(ctx, "check passed", logger.String("check", c.name))
				}
				results[index] = res
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range checks {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	// Checks never dispatched because ctx ended count as failures.
	for i := range results {
		if results[i].Name != "" {
			continue
		}
		detail := "not run"
		if cause := context.Cause(ctx); cause != nil {
			detail += ": " + cause.Error()
		}
		results[i] = Result{Name: checks[i].name, Detail: detail}
	}
	return results
}

// saveReport writes the report as indented JSON.
func saveReport(filename string, report *Report) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(filename, data, reportFilePermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
