// Package metrics exposes engine activity as Prometheus collectors, wired in
// through the engine's turn hooks.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
)

// Metrics holds the collectors for one bot instance.
type Metrics struct {
	registry *prometheus.Registry

	turnsTotal    *prometheus.CounterVec
	dialogsBegun  *prometheus.CounterVec
	dialogsEnded  *prometheus.CounterVec
	stepsTotal    *prometheus.CounterVec
	promptRetries *prometheus.CounterVec
	stackDepth    prometheus.Histogram
}

// New creates and registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "botplayground_turns_total",
			Help: "Turns processed, by activity type and channel.",
		}, []string{"activity_type", "channel"}),
		dialogsBegun: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "botplayground_dialogs_begun_total",
			Help: "Dialogs pushed onto a stack, by dialog id.",
		}, []string{"dialog_id"}),
		dialogsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "botplayground_dialogs_ended_total",
			Help: "Dialogs popped off a stack, by dialog id.",
		}, []string{"dialog_id"}),
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "botplayground_steps_total",
			Help: "Waterfall steps executed, by dialog id.",
		}, []string{"dialog_id"}),
		promptRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "botplayground_prompt_retries_total",
			Help: "Prompt inputs rejected and re-asked, by dialog id.",
		}, []string{"dialog_id"}),
		stackDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "botplayground_dialog_stack_depth",
			Help:    "Stack depth observed when dialogs begin.",
			Buckets: prometheus.LinearBuckets(1, 1, 8),
		}),
	}

	registry.MustRegister(
		m.turnsTotal,
		m.dialogsBegun,
		m.dialogsEnded,
		m.stepsTotal,
		m.promptRetries,
		m.stackDepth,
	)
	return m
}

// Hooks returns turn hooks that feed the collectors.
func (m *Metrics) Hooks() domain.TurnHooks {
	return domain.TurnHooks{
		OnTurnStart: func(_ context.Context, e *domain.TurnEvent) {
			m.turnsTotal.WithLabelValues(string(e.ActivityType), e.ChannelID).Inc()
		},
		OnDialogBegin: func(_ context.Context, e *domain.DialogEvent) {
			m.dialogsBegun.WithLabelValues(e.DialogID).Inc()
			m.stackDepth.Observe(float64(e.Depth))
		},
		OnDialogEnd: func(_ context.Context, e *domain.DialogEvent) {
			m.dialogsEnded.WithLabelValues(e.DialogID).Inc()
		},
		OnStep: func(_ context.Context, e *domain.DialogEvent) {
			m.stepsTotal.WithLabelValues(e.DialogID).Inc()
		},
		OnPromptRetry: func(_ context.Context, e *domain.DialogEvent) {
			m.promptRetries.WithLabelValues(e.DialogID).Inc()
		},
	}
}

// Registry exposes the underlying registry for custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
