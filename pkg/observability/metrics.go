package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/modfsm/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for evaluations.
const (
	OutcomeOK            = "ok"
	OutcomeInvalidInput  = "invalid_input"
	OutcomeConfiguration = "configuration"
	OutcomeOther         = "error"
)

// Metrics holds the collectors fed by the engine hooks.
type Metrics struct {
	Constructions *prometheus.CounterVec
	Evaluations   *prometheus.CounterVec
	Symbols       prometheus.Counter
	Duration      prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Constructions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modfsm_constructions_total",
				Help: "Automatons obtained, by source (build, cache, store) and outcome.",
			},
			[]string{"source", "outcome"},
		),
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modfsm_evaluations_total",
				Help: "Remainder evaluations by outcome.",
			},
			[]string{"outcome"},
		),
		Symbols: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "modfsm_symbols_total",
				Help: "Input symbols consumed by successful evaluations.",
			},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "modfsm_evaluation_duration_seconds",
				Help:    "Duration of remainder evaluations.",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Constructions, m.Evaluations, m.Symbols, m.Duration)
	}
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnConstruct: func(ctx context.Context, e *domain.ConstructEvent) {
			m.Constructions.WithLabelValues(e.Source, Outcome(e.Err)).Inc()
		},
		OnEvaluate: func(ctx context.Context, e *domain.EvaluateEvent) {
			outcome := Outcome(e.Err)
			m.Evaluations.WithLabelValues(outcome).Inc()
			if outcome == OutcomeOK {
				m.Symbols.Add(float64(e.Symbols))
			}
			m.Duration.Observe(e.Duration.Seconds())
		},
	}
}

// Outcome classifies err into a metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, domain.ErrConfiguration):
		return OutcomeConfiguration
	default:
		return OutcomeOther
	}
}

// LogHooks returns hooks that write one record per event. Configuration
// errors are logged at error level since they indicate a defect.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnConstruct: func(ctx context.Context, e *domain.ConstructEvent) {
			if e.Err != nil {
				logger.Log(ctx, level(e.Err), "construct failed", "modulus", e.Modulus, "err", e.Err)
				return
			}
			logger.Debug("construct", "modulus", e.Modulus, "source", e.Source)
		},
		OnEvaluate: func(ctx context.Context, e *domain.EvaluateEvent) {
			if e.Err != nil {
				logger.Log(ctx, level(e.Err), "evaluate failed", "modulus", e.Modulus, "err", e.Err)
				return
			}
			logger.Debug("evaluate",
				"modulus", e.Modulus,
				"symbols", e.Symbols,
				"remainder", e.Remainder,
				"duration", e.Duration,
			)
		},
	}
}

// Combine fans every event out to all hook sets.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnConstruct: func(ctx context.Context, e *domain.ConstructEvent) {
			for _, h := range hooks {
				if h.OnConstruct != nil {
					h.OnConstruct(ctx, e)
				}
			}
		},
		OnEvaluate: func(ctx context.Context, e *domain.EvaluateEvent) {
			for _, h := range hooks {
				if h.OnEvaluate != nil {
					h.OnEvaluate(ctx, e)
				}
			}
		},
	}
}

func level(err error) slog.Level {
	if errors.Is(err, domain.ErrConfiguration) {
		return slog.LevelError
	}
	return slog.LevelWarn
}
