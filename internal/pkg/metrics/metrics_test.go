package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resortbooking/internal/domain"
)

func TestLedgerCounters(t *testing.T) {
	m := New(Config{ServiceName: "test", Environment: "test"})

	m.BookingCreated()
	m.PaymentRecorded(domain.PaymentFull, decimal.NewFromInt(5500))
	m.PaymentRecorded(domain.PaymentRefund, decimal.NewFromInt(-2750))
	m.BookingCancelled(true, decimal.NewFromInt(2750))
	m.SlotConflict()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.slotConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingsCancelled.WithLabelValues("true")))
	assert.Equal(t, 2750.0, testutil.ToFloat64(m.paymentAmount.WithLabelValues("refund")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.payments.WithLabelValues("full")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.BookingCreated()
		m.PaymentRecorded(domain.PaymentPartial, decimal.NewFromInt(1))
		m.BookingCancelled(false, decimal.Zero)
	})
}

func TestGinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(Config{})

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/api/v1/bookings/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, `route="/api/v1/bookings/:id"`), body)
	assert.Contains(t, body, "resort_http_request_duration_seconds")
}
