package oracle

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded by Instrument.
const (
	OutcomeChosen   = "chosen"
	OutcomeDeclined = "declined"
	OutcomeError    = "error"
)

// Metrics holds the collectors shared by instrumented oracles.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates the oracle collectors and registers them with reg.
// Collectors already registered by an earlier call are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taxon",
		Subsystem: "oracle",
		Name:      "calls_total",
		Help:      "Oracle calls by outcome: chosen (answer among candidates), declined (any other answer) or error.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "taxon",
		Subsystem: "oracle",
		Name:      "call_duration_seconds",
		Help:      "Latency of oracle calls.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	})

	var err error
	if calls, err = register(reg, calls); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	return &Metrics{calls: calls, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Instrument wraps next so every call is counted and timed.
func (m *Metrics) Instrument(next Oracle) Oracle {
	return &instrumented{metrics: m, next: next}
}

type instrumented struct {
	metrics *Metrics
	next    Oracle
}

func (o *instrumented) Choose(ctx context.Context, text string, candidates []string) (string, error) {
	start := time.Now()
	answer, err := o.next.Choose(ctx, text, candidates)
	o.metrics.duration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		o.metrics.calls.WithLabelValues(OutcomeError).Inc()
	case slices.Contains(candidates, answer):
		o.metrics.calls.WithLabelValues(OutcomeChosen).Inc()
	default:
		o.metrics.calls.WithLabelValues(OutcomeDeclined).Inc()
	}
	return answer, err
}
