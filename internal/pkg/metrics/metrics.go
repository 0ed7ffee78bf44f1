// Package metrics exposes prometheus instruments for the HTTP server and the
// booking ledger.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"resortbooking/internal/domain"
)

type Config struct {
	ServiceName string
	Environment string
}

// Metrics owns a registry so tests and multiple servers never collide on the
// global one.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge

	bookingsCreated   prometheus.Counter
	bookingsUpdated   prometheus.Counter
	bookingsCancelled *prometheus.CounterVec
	slotConflicts     prometheus.Counter
	payments          *prometheus.CounterVec
	paymentAmount     *prometheus.CounterVec
}

func New(cfg Config) *Metrics {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "resortbooking"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "resort_http_request_duration_seconds",
			Help:        "HTTP request latency by route and status code.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route", "status_code"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "resort_http_in_flight_requests",
			Help:        "Requests currently being served.",
			ConstLabels: constLabels,
		}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "resort_bookings_created_total",
			Help:        "Bookings created.",
			ConstLabels: constLabels,
		}),
		bookingsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "resort_bookings_updated_total",
			Help:        "Booking edits committed.",
			ConstLabels: constLabels,
		}),
		bookingsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "resort_bookings_cancelled_total",
			Help:        "Bookings cancelled, by whether a refund was issued.",
			ConstLabels: constLabels,
		}, []string{"refunded"}),
		slotConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "resort_slot_conflicts_total",
			Help:        "Create or update attempts rejected because the slot was taken.",
			ConstLabels: constLabels,
		}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "resort_payments_total",
			Help:        "Payments recorded by type.",
			ConstLabels: constLabels,
		}, []string{"payment_type"}),
		paymentAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "resort_payment_amount_total",
			Help:        "Absolute amount moved by payments, by type.",
			ConstLabels: constLabels,
		}, []string{"payment_type"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.inFlight,
		m.bookingsCreated,
		m.bookingsUpdated,
		m.bookingsCancelled,
		m.slotConflicts,
		m.payments,
		m.paymentAmount,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// GinMiddleware records request duration and in-flight requests.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}

		m.inFlight.Inc()
		start := time.Now()
		c.Next()
		m.inFlight.Dec()

		m.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) BookingCreated() {
	if m == nil {
		return
	}
	m.bookingsCreated.Inc()
}

func (m *Metrics) BookingUpdated() {
	if m == nil {
		return
	}
	m.bookingsUpdated.Inc()
}

func (m *Metrics) BookingCancelled(refunded bool, _ decimal.Decimal) {
	if m == nil {
		return
	}
	m.bookingsCancelled.WithLabelValues(strconv.FormatBool(refunded)).Inc()
}

func (m *Metrics) SlotConflict() {
	if m == nil {
		return
	}
	m.slotConflicts.Inc()
}

func (m *Metrics) PaymentRecorded(paymentType domain.PaymentType, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(string(paymentType)).Inc()
	m.paymentAmount.WithLabelValues(string(paymentType)).Add(amount.Abs().InexactFloat64())
}
