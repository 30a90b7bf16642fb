package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the service's Prometheus metrics.
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	webhookTotal *prometheus.CounterVec
	gatewayCalls *prometheus.CounterVec
}

var globalCollector = NewCollector()

// NewCollector registers the metric vectors with the default registry.
func NewCollector() *Collector {
	return &Collector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		webhookTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_webhook_total",
				Help: "Payment webhook deliveries by outcome",
			},
			[]string{"outcome"},
		),
		gatewayCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_gateway_calls_total",
				Help: "Outbound gateway calls by operation and result",
			},
			[]string{"operation", "result"},
		),
	}
}

// GetGlobalCollector returns the process-wide collector.
func GetGlobalCollector() *Collector {
	return globalCollector
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordWebhook records a webhook delivery outcome (paid, failed, pending,
// duplicate, rejected, amount_mismatch).
func (c *Collector) RecordWebhook(outcome string) {
	c.webhookTotal.WithLabelValues(outcome).Inc()
}

// RecordGatewayCall records an outbound gateway call result.
func (c *Collector) RecordGatewayCall(operation, result string) {
	c.gatewayCalls.WithLabelValues(operation, result).Inc()
}
