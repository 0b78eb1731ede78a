// Package metrics holds the Prometheus instrumentation for the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Query resolution metrics
	RuleMatchesTotal         *prometheus.CounterVec
	GenerativeCallsTotal     *prometheus.CounterVec
	GenerativeDuration       *prometheus.HistogramVec
	GenerativeErrorsTotal    prometheus.Counter
	GenerativeRetriesTotal   *prometheus.CounterVec
	GenerativeFallbacksTotal *prometheus.CounterVec

	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds prometheus.Histogram
	SendErrorsTotal        prometheus.Counter

	// State gauges
	CatalogCourses      prometheus.Gauge
	ActiveConversations prometheus.Gauge
}

// New creates a Metrics instance with all metrics registered.
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		RuleMatchesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camila_rule_matches_total",
				Help: "Messages answered by a deterministic rule, by rule name",
			},
			[]string{"rule"}, // rule: shortcut_link, single_locality, keyword_search, course_detail
		),

		GenerativeCallsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camila_generative_calls_total",
				Help: "Successful generative backend calls by provider",
			},
			[]string{"provider"}, // provider: openai, gemini
		),

		GenerativeDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "camila_generative_duration_seconds",
				Help:    "Generative backend call duration in seconds by provider",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"provider"},
		),

		GenerativeErrorsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "camila_generative_errors_total",
				Help: "Messages that received the apology reply after backend failure",
			},
		),

		GenerativeRetriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camila_generative_retries_total",
				Help: "Retries within a generative provider",
			},
			[]string{"provider"},
		),

		GenerativeFallbacksTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camila_generative_fallbacks_total",
				Help: "Provider switches after a provider was exhausted",
			},
			[]string{"from_provider"},
		),

		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camila_webhook_requests_total",
				Help: "Webhook notifications by status",
			},
			[]string{"status"}, // status: received, bad_signature
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "camila_webhook_duration_seconds",
				Help:    "Webhook acknowledgement duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),

		SendErrorsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "camila_send_errors_total",
				Help: "Replies that could not be delivered to the Cloud API",
			},
		),

		CatalogCourses: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "camila_catalog_courses",
				Help: "Courses in the current catalog snapshot",
			},
		),

		ActiveConversations: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "camila_active_conversations",
				Help: "Conversations with queued or running work",
			},
		),
	}
}

// RecordRuleMatch counts a rule-answered message.
func (m *Metrics) RecordRuleMatch(rule string) {
	m.RuleMatchesTotal.WithLabelValues(rule).Inc()
}

// RecordGenerativeCall counts a successful backend call.
func (m *Metrics) RecordGenerativeCall(provider string, duration time.Duration) {
	m.GenerativeCallsTotal.WithLabelValues(provider).Inc()
	m.GenerativeDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordGenerativeError counts a backend failure.
func (m *Metrics) RecordGenerativeError() {
	m.GenerativeErrorsTotal.Inc()
}

// RecordGenerativeRetry counts a retry within a provider.
func (m *Metrics) RecordGenerativeRetry(provider string) {
	m.GenerativeRetriesTotal.WithLabelValues(provider).Inc()
}

// RecordGenerativeFallback counts a provider switch.
func (m *Metrics) RecordGenerativeFallback(fromProvider string) {
	m.GenerativeFallbacksTotal.WithLabelValues(fromProvider).Inc()
}

// RecordWebhook counts a webhook notification and its handling time.
func (m *Metrics) RecordWebhook(status string, duration time.Duration) {
	m.WebhookRequestsTotal.WithLabelValues(status).Inc()
	m.WebhookDurationSeconds.Observe(duration.Seconds())
}

// RecordSendError counts an undeliverable reply.
func (m *Metrics) RecordSendError() {
	m.SendErrorsTotal.Inc()
}

// SetCatalogSize records the current catalog size.
func (m *Metrics) SetCatalogSize(courses int) {
	m.CatalogCourses.Set(float64(courses))
}

// SetActiveConversations records the active conversation queue count.
func (m *Metrics) SetActiveConversations(count int) {
	m.ActiveConversations.Set(float64(count))
}
