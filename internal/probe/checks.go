package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/okian/trendboard/internal/domain/analytics"
	"github.com/okian/trendboard/internal/domain/timegate"
	"github.com/okian/trendboard/internal/domain/types"
)

// rankingProbeN is the list length requested by ranking checks.
const rankingProbeN = 3

// check is one named probe against the service. It returns the request id
// of its last call for correlation with server logs.
type check struct {
	name string
	run  func(ctx context.Context, c *HTTPClient) (string, error)
}

func criteriaQuery(c analytics.Criteria) string {
	q := url.Values{}
	q.Set("engagement", c.Engagement.String())
	q.Set("impressions", c.Impressions.String())
	return q.Encode()
}

func criteriaName(c analytics.Criteria) string {
	return c.Engagement.String() + "/" + c.Impressions.String()
}

// allCriteria lists every engagement and impressions tier combination.
func allCriteria() []analytics.Criteria {
	var out []analytics.Criteria
	for _, e := range analytics.Tiers() {
		for _, i := range analytics.Tiers() {
			out = append(out, analytics.Criteria{Engagement: e, Impressions: i})
		}
	}
	return out
}

// buildChecks returns the full check list. ref is the unfiltered dataset as
// served by the service and anchors ordering checks.
func buildChecks(ref []analytics.CategoryMetric) []check {
	checks := []check{
		{name: "healthz", run: checkHealth},
		{name: "request_id_echo", run: checkRequestID},
		{name: "gate_snapshot", run: checkGate},
		{name: "overview_gating", run: checkOverview},
		{name: "bad_tier_rejected", run: checkBadRequest("/api/metrics?engagement=bogus")},
		{name: "bad_sort_key_rejected", run: checkBadRequest("/api/top?by=bogus")},
		{name: "bad_n_rejected", run: checkBadRequest("/api/top?n=0")},
	}
	for _, c := range allCriteria() {
		checks = append(checks, check{name: "metrics[" + criteriaName(c) + "]", run: checkMetrics(c, ref)})
		for _, key := range []analytics.RankKey{analytics.ByEngagement, analytics.ByGrowth} {
			checks = append(checks, check{
				name: "top[" + key.String() + "," + criteriaName(c) + "]",
				run:  checkTop(c, key),
			})
		}
	}
	return checks
}

func checkHealth(ctx context.Context, c *HTTPClient) (string, error) {
	resp, err := c.get(ctx, "/healthz")
	if err != nil {
		return "", err
	}
	if resp.status != StatusOK {
		return resp.requestID, fmt.Errorf("status %d", resp.status)
	}
	if !strings.Contains(string(resp.body), "trendboard_") {
		return resp.requestID, fmt.Errorf("no trendboard metrics exposed")
	}
	return resp.requestID, nil
}

func checkRequestID(ctx context.Context, c *HTTPClient) (string, error) {
	resp, err := c.get(ctx, "/api/gate")
	if err != nil {
		return "", err
	}
	if resp.echoedID != resp.requestID {
		return resp.requestID, fmt.Errorf("sent %s, got %q back", resp.requestID, resp.echoedID)
	}
	return resp.requestID, nil
}

func checkGate(ctx context.Context, c *HTTPClient) (string, error) {
	var snap timegate.Snapshot
	resp, err := c.getJSON(ctx, "/api/gate", &snap)
	if err != nil {
		return requestID(resp), err
	}
	return resp.requestID, verifyGate(snap)
}

func checkOverview(ctx context.Context, c *HTTPClient) (string, error) {
	var ov types.Overview
	resp, err := c.getJSON(ctx, "/api/overview", &ov)
	if err != nil {
		return requestID(resp), err
	}
	if err := verifyGate(ov.Gate); err != nil {
		return resp.requestID, err
	}
	if !ov.Gate.Active {
		if ov.Items != nil || ov.TopPerformers != nil || ov.GrowthLeaders != nil {
			return resp.requestID, fmt.Errorf("restricted overview exposes chart data")
		}
		return resp.requestID, nil
	}
	if err := verifyTotals(ov.Items, ov.Totals); err != nil {
		return resp.requestID, err
	}
	if err := verifyRanking(ov.Items, ov.TopPerformers, analytics.ByEngagement, len(ov.TopPerformers)); err != nil {
		return resp.requestID, fmt.Errorf("top performers: %w", err)
	}
	if err := verifyRanking(ov.Items, ov.GrowthLeaders, analytics.ByGrowth, len(ov.GrowthLeaders)); err != nil {
		return resp.requestID, fmt.Errorf("growth leaders: %w", err)
	}
	return resp.requestID, nil
}

func checkBadRequest(path string) func(context.Context, *HTTPClient) (string, error) {
	return func(ctx context.Context, c *HTTPClient) (string, error) {
		resp, err := c.get(ctx, path)
		if err != nil {
			return "", err
		}
		if resp.status != StatusBadRequest {
			return resp.requestID, fmt.Errorf("status %d, want %d", resp.status, StatusBadRequest)
		}
		var body struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(resp.body, &body); err != nil || body.Code == "" {
			return resp.requestID, fmt.Errorf("error body without code: %s", resp.body)
		}
		return resp.requestID, nil
	}
}

func checkMetrics(crit analytics.Criteria, ref []analytics.CategoryMetric) func(context.Context, *HTTPClient) (string, error) {
	return func(ctx context.Context, c *HTTPClient) (string, error) {
		var view types.MetricsView
		resp, err := c.getJSON(ctx, "/api/metrics?"+criteriaQuery(crit), &view)
		if err != nil {
			return requestID(resp), err
		}
		if view.Filters != crit {
			return resp.requestID, fmt.Errorf("filters echoed as %s", criteriaName(view.Filters))
		}
		if view.Items == nil {
			return resp.requestID, fmt.Errorf("items is null, want an array")
		}
		if err := verifyFiltered(view.Items, crit, ref); err != nil {
			return resp.requestID, err
		}
		return resp.requestID, verifyTotals(view.Items, view.Totals)
	}
}

func checkTop(crit analytics.Criteria, key analytics.RankKey) func(context.Context, *HTTPClient) (string, error) {
	return func(ctx context.Context, c *HTTPClient) (string, error) {
		var view types.MetricsView
		if resp, err := c.getJSON(ctx, "/api/metrics?"+criteriaQuery(crit), &view); err != nil {
			return requestID(resp), err
		}
		var ranked []analytics.RankedMetric
		path := fmt.Sprintf("/api/top?by=%s&n=%d&%s", key, rankingProbeN, criteriaQuery(crit))
		resp, err := c.getJSON(ctx, path, &ranked)
		if err != nil {
			return requestID(resp), err
		}
		return resp.requestID, verifyRanking(view.Items, ranked, key, rankingProbeN)
	}
}

func requestID(resp *response) string {
	if resp == nil {
		return ""
	}
	return resp.requestID
}
