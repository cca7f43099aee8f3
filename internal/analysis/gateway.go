// internal/analysis/gateway.go
package analysis

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	stderrors "reviewbot/internal/common/errors"
	"reviewbot/internal/common/logger"
	"reviewbot/internal/common/metrics"
	"reviewbot/internal/models"
)

// Outcome classifies what an analysis run produced.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeNoReviews    Outcome = "no_reviews"
	OutcomeNotInDataset Outcome = "not_in_dataset"
	outcomeFailed       Outcome = "failed"
)

// Sentinel lines the analysis tool prints on stdout. The tool exits
// non-zero on both, so stdout is inspected before the exit code.
const (
	sentinelNotInDataset = "NO_PRODUCT_IN_DATASET"
	sentinelNoReviews    = "NO_REVIEWS_FOUND"
)

// Result is the normalized outcome of one analysis run. Data is set
// only when Outcome is OutcomeOK.
type Result struct {
	Outcome Outcome
	Data    *models.AnalysisResult
}

// GatewayConfig configures the external analysis tool invocation.
type GatewayConfig struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// Gateway runs the external analysis tool and normalizes its result
// through the cache.
type Gateway struct {
	config *GatewayConfig
	cache  *Cache
	logger logger.Logger
}

func NewGateway(config *GatewayConfig, cache *Cache, log logger.Logger) *Gateway {
	return &Gateway{
		config: config,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"component": "analysisGateway"}),
	}
}

// AnalyzeProduct spawns the analysis tool with productID as its sole
// extra argument, waits for completion, and loads the freshly written
// artifact through the cache. Runs take on the order of tens of
// seconds; callers hold only their own user's session while waiting.
func (g *Gateway) AnalyzeProduct(ctx context.Context, productID string) (*Result, error) {
	start := time.Now()

	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, g.config.Args...), productID)
	cmd := exec.CommandContext(ctx, g.config.Command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	g.logger.Info("starting analysis run", map[string]interface{}{
		"productId": productID,
		"command":   g.config.Command,
	})

	runErr := cmd.Run()
	elapsed := time.Since(start)

	outcome, result, err := g.classify(ctx, productID, stdout.String(), stderr.String(), runErr)

	metrics.AnalysisRuns.WithLabelValues(string(outcome)).Inc()
	metrics.AnalysisDuration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())

	if err != nil {
		g.logger.Error("analysis run failed", map[string]interface{}{
			"productId": productID,
			"elapsed":   elapsed.String(),
			"error":     err.Error(),
		})
		return nil, err
	}

	g.logger.Info("analysis run finished", map[string]interface{}{
		"productId": productID,
		"outcome":   string(outcome),
		"elapsed":   elapsed.String(),
	})
	return result, nil
}

func (g *Gateway) classify(ctx context.Context, productID, stdout, stderr string, runErr error) (Outcome, *Result, error) {
	// Sentinels win over the exit code: the tool exits 1 on both.
	if containsLine(stdout, sentinelNotInDataset) {
		return OutcomeNotInDataset, &Result{Outcome: OutcomeNotInDataset}, nil
	}
	if containsLine(stdout, sentinelNoReviews) {
		return OutcomeNoReviews, &Result{Outcome: OutcomeNoReviews}, nil
	}

	if runErr != nil {
		diagnostic := strings.TrimSpace(stderr)
		if diagnostic == "" {
			diagnostic = strings.TrimSpace(stdout)
		}
		if diagnostic == "" {
			diagnostic = runErr.Error()
		}
		return outcomeFailed, nil, stderrors.NewAnalysisFailedError(productID, diagnostic)
	}

	// Success: the artifact should now exist. A fresh run replaced
	// whatever was cached, so force a re-read.
	g.cache.Invalidate(ctx, productID)

	data, err := g.cache.Get(ctx, productID)
	if err != nil {
		return outcomeFailed, nil, stderrors.NewAnalysisFailedError(productID, err.Error())
	}
	if data == nil {
		return OutcomeNoReviews, &Result{Outcome: OutcomeNoReviews}, nil
	}

	return OutcomeOK, &Result{Outcome: OutcomeOK, Data: data}, nil
}

// LoadCached returns the cached or stored analysis without invoking the
// external tool, or nil when nothing has been analyzed yet.
func (g *Gateway) LoadCached(ctx context.Context, productID string) (*models.AnalysisResult, error) {
	return g.cache.Get(ctx, productID)
}

func containsLine(output, sentinel string) bool {
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == sentinel {
			return true
		}
	}
	return false
}
