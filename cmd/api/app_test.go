package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resortbooking/internal/config"
	"resortbooking/internal/modules/auth"
)

func newTestApp(t *testing.T, passwordHash string) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.Config{
		Env:                  "test",
		DatabaseURL:          fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		SnowflakeNode:        1,
		JWTSecret:            "test-secret",
		TokenTTL:             time.Hour,
		OperatorUsername:     "desk",
		OperatorPasswordHash: passwordHash,
	}

	a, err := newApp(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func call(a *app, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestApp_OpenMode(t *testing.T) {
	a := newTestApp(t, "")

	w := call(a, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = call(a, http.MethodGet, "/api/v1/bookings", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(a, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "desk", "password": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(a, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_request_duration_seconds")
}

func TestApp_OperatorAuth(t *testing.T) {
	hash, err := auth.HashPassword("sunset-cove")
	require.NoError(t, err)
	a := newTestApp(t, hash)

	w := call(a, http.MethodGet, "/api/v1/bookings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(a, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "desk", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(a, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "desk", "password": "sunset-cove"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Data auth.LoginResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.AccessToken)

	w = call(a, http.MethodGet, "/api/v1/bookings", login.Data.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(a, http.MethodPost, "/api/v1/amenities/subtotal", login.Data.AccessToken,
		map[string]any{"lines": []map[string]string{{"item": "Cottage", "price": "750", "quantity": "2"}}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1500")
}

func TestApp_BookingFlowReachesFeedAndReports(t *testing.T) {
	a := newTestApp(t, "")
	srv := httptest.NewServer(a.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/feed", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return a.hub.GetOnlineCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	start := time.Now().UTC().Truncate(time.Hour).Add(48 * time.Hour)
	w := call(a, http.MethodPost, "/api/v1/bookings", "", map[string]any{
		"client":            map[string]string{"name": "Rosa Lim", "phone": "09170000000"},
		"event_type":        "Birthday",
		"start_date":        start.Format(time.RFC3339),
		"end_date":          start.Add(6 * time.Hour).Format(time.RFC3339),
		"base_total_amount": "3000",
		"payment":           map[string]string{"type": "partial", "amount": "1000"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event struct {
		Type string `json:"type"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "booking.created", event.Type)

	w = call(a, http.MethodGet, "/api/v1/reports/monthly?month="+start.Format("2006-01"), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var monthly struct {
		Data struct {
			TotalBookings   int    `json:"total_bookings"`
			PendingPayments string `json:"pending_payments"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &monthly))
	assert.Equal(t, 1, monthly.Data.TotalBookings)
	assert.Equal(t, "2000", monthly.Data.PendingPayments)
}
