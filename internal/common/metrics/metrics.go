package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crow_http_requests_total",
			Help: "Total HTTP requests.",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crow_http_request_duration_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	ProfilesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crow_profiles_created_total",
			Help: "Profiles created, by trigger.",
		},
		[]string{"source"}, // start|save
	)

	BotUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crow_bot_updates_total",
			Help: "Bot updates received, by kind.",
		},
		[]string{"kind"},
	)

	InvoicesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crow_invoices_sent_total",
			Help: "Boost invoices dispatched.",
		},
		[]string{"multiplier"},
	)

	PaymentsCredited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crow_payments_credited_total",
			Help: "Successful payments credited to balances.",
		},
		[]string{"multiplier"},
	)

	PaymentsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crow_payments_rejected_total",
			Help: "Successful payments that could not be credited.",
		},
		[]string{"reason"},
	)
)

// Handler serves the prometheus exposition format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Middleware records request counts and latency keyed by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
