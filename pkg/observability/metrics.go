// Package observability turns composition hooks into Prometheus metrics.
package observability

import (
	"context"

	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for compositions.
const (
	ResultOK        = "ok"
	ResultExhausted = "exhausted"
	ResultCanceled  = "canceled"
	ResultError     = "error"
)

// Metrics holds the composition collectors.
type Metrics struct {
	Compositions *prometheus.CounterVec
	Duration     prometheus.Histogram
	States       prometheus.Histogram
	Rejected     prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Compositions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsnt_compositions_total",
				Help: "Total number of compositions by result",
			},
			[]string{"result"},
		),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fsnt_composition_duration_seconds",
			Help:    "Duration of compositions",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		States: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fsnt_composition_states",
			Help:    "Number of states in composition outputs",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fsnt_composition_rejected_pairs_total",
			Help: "Transition pairs whose glued tapes could not be reconciled",
		}),
	}
	reg.MustRegister(m.Compositions, m.Duration, m.States, m.Rejected)
	return m
}

// Hooks returns composition hooks that record into m.
func (m *Metrics) Hooks() domain.ComposeHooks {
	return domain.ComposeHooks{
		OnFinish: func(ctx context.Context, e *domain.ComposeEvent) {
			m.Compositions.WithLabelValues(result(e.Err)).Inc()
			m.Duration.Observe(e.Duration.Seconds())
			m.Rejected.Add(float64(e.Rejected))
			if e.Err == nil {
				m.States.Observe(float64(e.States))
			}
		},
	}
}

func result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrResourceExhausted):
		return ResultExhausted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ResultCanceled
	}
	return ResultError
}
