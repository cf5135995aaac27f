package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the Prometheus collectors exported by the API. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	reqTotal       *prometheus.CounterVec
	reqDur         *prometheus.HistogramVec
	linesPriced    *prometheus.CounterVec
	stockMovements *prometheus.CounterVec
	stockRejected  *prometheus.CounterVec
}

// New creates the collectors and registers them on reg (the default registerer when nil).
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		reqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "route"}),
		linesPriced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_lines_priced_total",
			Help:      "Order lines run through the pricing engine, by outcome.",
		}, []string{"result"}),
		stockMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Stock movements written to the ledger, by movement type.",
		}, []string{"type"}),
		stockRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_operations_rejected_total",
			Help:      "Stock adjustments and transfers rejected by validation, by reason.",
		}, []string{"operation", "reason"}),
	}
	reg.MustRegister(m.reqTotal, m.reqDur, m.linesPriced, m.stockMovements, m.stockRejected)
	return m
}

// GinMiddleware records request count and latency per route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.reqTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.reqDur.WithLabelValues(c.Request.Method, route).Observe(float64(time.Since(start)) / float64(time.Millisecond))
	}
}

// LinesPriced counts lines priced successfully (ok=true) or rejected.
func (m *Metrics) LinesPriced(n int, ok bool) {
	if m == nil || n <= 0 {
		return
	}
	result := "ok"
	if !ok {
		result = "rejected"
	}
	m.linesPriced.WithLabelValues(result).Add(float64(n))
}

// StockMovement counts one ledger movement of the given type.
func (m *Metrics) StockMovement(movementType string) {
	if m == nil {
		return
	}
	m.stockMovements.WithLabelValues(movementType).Inc()
}

// StockRejected counts a stock operation refused by validation.
func (m *Metrics) StockRejected(operation, reason string) {
	if m == nil {
		return
	}
	m.stockRejected.WithLabelValues(operation, reason).Inc()
}
