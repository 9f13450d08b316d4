// Package metrics records command and extraction counters for the
// node-exporter textfile collector.
package metrics

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/systmms/wifikeys/internal/wifi"
	pkgexec "github.com/systmms/wifikeys/pkg/exec"
)

// Command statuses
const (
	StatusOK          = "ok"
	StatusError       = "error"
	StatusTimeout     = "timeout"
	StatusUnavailable = "unavailable"
)

// Metrics owns a private registry so a run only exports its own series.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	recordsTotal    *prometheus.CounterVec
}

// New creates and registers all wifikeys metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		commandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wifikeys_commands_total",
				Help: "Total number of native commands executed",
			},
			[]string{"command", "status"},
		),
		commandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wifikeys_command_duration_seconds",
				Help:    "Duration of native commands in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"command"},
		),
		recordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wifikeys_records_total",
				Help: "Total number of credential records extracted",
			},
			[]string{"platform", "retrievability"},
		),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordCommand records one native command execution.
func (m *Metrics) RecordCommand(command, status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.commandsTotal.WithLabelValues(command, status).Inc()
	m.commandDuration.WithLabelValues(command).Observe(durationSeconds)
}

// RecordSummary counts the records of one extraction run.
func (m *Metrics) RecordSummary(s wifi.Summary) {
	if m == nil {
		return
	}
	platform := string(s.Platform)
	for _, r := range s.Records {
		m.recordsTotal.WithLabelValues(platform, r.Retrievability.String()).Inc()
	}
}

// WriteTextfile atomically writes all metrics in text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// Instrument wraps next so every command it runs is counted and timed.
func (m *Metrics) Instrument(next pkgexec.CommandExecutor) pkgexec.CommandExecutor {
	if m == nil {
		return next
	}
	return &instrumentedExecutor{next: next, metrics: m}
}

type instrumentedExecutor struct {
	next    pkgexec.CommandExecutor
	metrics *Metrics
}

func (e *instrumentedExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()
	stdout, stderr, err := e.next.Execute(ctx, name, args...)
	e.metrics.RecordCommand(filepath.Base(name), commandStatus(err), time.Since(start).Seconds())
	return stdout, stderr, err
}

func commandStatus(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case pkgexec.IsNotFound(err):
		return StatusUnavailable
	default:
		return StatusError
	}
}
