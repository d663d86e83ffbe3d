package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal counts accepted registration submissions.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sledge_registrations_total",
		Help: "Registrations accepted and handed off to checkout.",
	})

	// PaymentsVerifiedTotal counts payments confirmed by the processor.
	PaymentsVerifiedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sledge_payments_verified_total",
		Help: "Checkout sessions verified as paid.",
	})

	// ReceiptsExportedTotal counts generated receipt PDFs.
	ReceiptsExportedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sledge_receipts_exported_total",
		Help: "Receipt PDF downloads served.",
	})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sledge_http_request_duration_seconds",
		Help:    "HTTP request latency by method, path and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

// HTTPMiddleware records request latency per route.
func HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
