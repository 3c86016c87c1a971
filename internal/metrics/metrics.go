// Package metrics exposes Prometheus collectors for decision outcomes,
// webhook delivery and bank fetch health.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements the metrics capabilities consumed by the service and
// the webhook delivery client. All methods are fire-and-forget; they can
// never affect decision or delivery outcomes.
type Recorder struct {
	decisions       *prometheus.CounterVec
	limitBuckets    *prometheus.CounterVec
	webhookLatency  prometheus.Histogram
	webhookFailures prometheus.Counter
	bankFailures    prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// NewRecorder registers all collectors on the given registerer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gerald_decision_total",
			Help: "Total BNPL decisions made.",
		}, []string{"outcome"}),
		limitBuckets: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gerald_credit_limit_bucket",
			Help: "Credit limits issued by bucket.",
		}, []string{"bucket"}),
		webhookLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "webhook_latency_seconds",
			Help:    "Ledger webhook response time.",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}),
		webhookFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "webhook_failures_total",
			Help: "Failed webhook delivery attempts.",
		}),
		bankFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "bank_fetch_failures_total",
			Help: "Failed bank API calls.",
		}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request latency.",
		}, []string{"method", "endpoint", "status"}),
	}
}

// ObserveDecision records the decision outcome distribution, bucketed by
// granted credit limit: $0, $0-$100, $100-$400, $400+.
func (r *Recorder) ObserveDecision(approved bool, creditLimitCents int64) {
	outcome := "declined"
	if approved {
		outcome = "approved"
	}
	r.decisions.WithLabelValues(outcome).Inc()

	var bucket string
	switch {
	case creditLimitCents == 0:
		bucket = "$0"
	case creditLimitCents <= 10_000:
		bucket = "$0-$100"
	case creditLimitCents <= 40_000:
		bucket = "$100-$400"
	default:
		bucket = "$400+"
	}
	r.limitBuckets.WithLabelValues(bucket).Inc()
}

// ObserveWebhookLatency records one delivery attempt's duration.
func (r *Recorder) ObserveWebhookLatency(d time.Duration) {
	r.webhookLatency.Observe(d.Seconds())
}

// IncWebhookFailure counts one failed delivery attempt.
func (r *Recorder) IncWebhookFailure() {
	r.webhookFailures.Inc()
}

// IncBankFetchFailure counts one failed bank history fetch.
func (r *Recorder) IncBankFetchFailure() {
	r.bankFailures.Inc()
}

// ObserveRequest records HTTP request latency for a route.
func (r *Recorder) ObserveRequest(method, endpoint string, status int, d time.Duration) {
	r.requestDuration.WithLabelValues(method, endpoint, strconv.Itoa(status)).Observe(d.Seconds())
}
