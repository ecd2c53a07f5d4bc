// Package metrics provides Prometheus metric collection and exposition.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface service layers use to report events.
type Recorder interface {
	RecordAdmission(allowed bool, source string)
	RecordChatLatency(duration time.Duration)
	RecordWebhook(outcome string)
	RecordPurchaseCreated(packageType string)
	RecordCreditsGranted(n int)
}

// Collector implements Recorder on Prometheus primitives.
type Collector struct {
	admissions      *prometheus.CounterVec
	chatLatency     prometheus.Histogram
	webhooks        *prometheus.CounterVec
	purchases       *prometheus.CounterVec
	creditsGranted  prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aihelper_admissions_total",
			Help: "Chat admission decisions by outcome and entitlement source.",
		}, []string{"outcome", "source"}),
		chatLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "aihelper_chat_latency_seconds",
			Help:    "End-to-end latency of chat turns including generation.",
			Buckets: prometheus.DefBuckets,
		}),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aihelper_payment_webhooks_total",
			Help: "Payment webhook deliveries by processing outcome.",
		}, []string{"outcome"}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aihelper_purchases_created_total",
			Help: "Purchase intents created by package type.",
		}, []string{"package"}),
		creditsGranted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aihelper_credits_granted_total",
			Help: "Paid requests credited through settled purchases.",
		}),
	}

	reg.MustRegister(
		c.admissions,
		c.chatLatency,
		c.webhooks,
		c.purchases,
		c.creditsGranted,
	)

	return c
}

// RecordAdmission records one admission decision.
func (c *Collector) RecordAdmission(allowed bool, source string) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	if source == "" {
		source = "none"
	}
	c.admissions.WithLabelValues(outcome, source).Inc()
}

// RecordChatLatency records the duration of one completed chat turn.
func (c *Collector) RecordChatLatency(duration time.Duration) {
	c.chatLatency.Observe(duration.Seconds())
}

// RecordWebhook records one processed webhook delivery.
func (c *Collector) RecordWebhook(outcome string) {
	c.webhooks.WithLabelValues(outcome).Inc()
}

// RecordPurchaseCreated records one created purchase intent.
func (c *Collector) RecordPurchaseCreated(packageType string) {
	c.purchases.WithLabelValues(packageType).Inc()
}

// RecordCreditsGranted records credits granted by a settlement.
func (c *Collector) RecordCreditsGranted(n int) {
	c.creditsGranted.Add(float64(n))
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
