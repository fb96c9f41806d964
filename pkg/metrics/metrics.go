package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's prometheus metrics.
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	ordersCreatedTotal     prometheus.Counter
	webhooksTotal          *prometheus.CounterVec
	provisionFailuresTotal prometheus.Counter
	gatewayErrorsTotal     prometheus.Counter
}

// NewCollector registers and returns the metric set.
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
		ordersCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "store_orders_created_total",
				Help: "Orders created with a pending QRIS deposit",
			},
		),
		webhooksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_webhooks_total",
				Help: "Deposit webhook deliveries by outcome",
			},
			[]string{"outcome"},
		),
		provisionFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "store_provision_failures_total",
				Help: "Panel provisioning attempts that failed",
			},
		),
		gatewayErrorsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "store_gateway_errors_total",
				Help: "Failed deposit creations against the payment gateway",
			},
		),
	}
}

// The counter helpers are nil-safe so tests can run without a
// registered collector.

func (m *Collector) OrderCreated() {
	if m != nil {
		m.ordersCreatedTotal.Inc()
	}
}

func (m *Collector) GatewayError() {
	if m != nil {
		m.gatewayErrorsTotal.Inc()
	}
}

func (m *Collector) ProvisionFailed() {
	if m != nil {
		m.provisionFailuresTotal.Inc()
	}
}

func (m *Collector) Webhook(outcome string) {
	if m != nil {
		m.webhooksTotal.WithLabelValues(outcome).Inc()
	}
}

// Middleware records request count and latency per route.
func (m *Collector) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.httpRequestsTotal.WithLabelValues(
			c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.httpRequestDuration.WithLabelValues(
			c.Request.Method, endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry at /metrics.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
