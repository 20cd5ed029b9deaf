// Package telemetry publishes run summaries to a Prometheus Pushgateway.
// azfleet is a one-shot tool, so it pushes on completion instead of
// serving a scrape endpoint. Without a configured gateway it is a no-op.
package telemetry

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/steve-rackham/azfleet/internal/model"
)

// Publisher pushes one metrics group per run, keyed by action and run id.
type Publisher struct {
	gateway string
	job     string
}

// New creates a publisher. An empty gateway disables publishing.
func New(gateway string) *Publisher {
	return &Publisher{gateway: gateway, job: "azfleet"}
}

// Publish pushes the summary's counters and duration.
func (p *Publisher) Publish(ctx context.Context, summary model.Summary) error {
	if p == nil || p.gateway == "" {
		return nil
	}

	processed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "azfleet_run_targets_processed",
		Help: "Targets processed by the run.",
	})
	targets := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "azfleet_run_targets",
		Help: "Targets by terminal status.",
	}, []string{"status"})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "azfleet_run_duration_seconds",
		Help: "Wall time of the run from engine start to last worker completion.",
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(processed, targets, duration)

	processed.Set(float64(summary.Processed))
	targets.WithLabelValues(model.StatusSkipped).Set(float64(summary.Skipped))
	targets.WithLabelValues(model.StatusSucceeded).Set(float64(summary.Succeeded))
	targets.WithLabelValues(model.StatusFailed).Set(float64(summary.Failed))
	targets.WithLabelValues(model.StatusWouldAct).Set(float64(summary.WouldAct))
	duration.Set(summary.Elapsed.Seconds())

	return push.New(p.gateway, p.job).
		Gatherer(registry).
		Grouping("action", groupingValue(summary.Action)).
		Grouping("run_id", summary.RunID).
		PushContext(ctx)
}

// groupingValue reduces an action label to a form safe for pushgateway
// grouping paths.
func groupingValue(label string) string {
	var b strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}
