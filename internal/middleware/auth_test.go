package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"resortbooking/internal/pkg/jwt"
)

func protectedRouter(t *testing.T, tokens TokenValidator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(JWTAuth(tokens))
	router.GET("/bookings", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"operator": c.GetString("operator")})
	})
	return router
}

func TestJWTAuth(t *testing.T) {
	issuer := jwt.New("desk-secret", time.Hour)
	valid, _, err := issuer.GenerateToken("frontdesk")
	if err != nil {
		t.Fatal(err)
	}
	foreign, _, _ := jwt.New("other-secret", time.Hour).GenerateToken("frontdesk")

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
		wantBody string
	}{
		{name: "bearer header", path: "/bookings", header: "Bearer " + valid, wantCode: http.StatusOK, wantBody: "frontdesk"},
		{name: "lowercase scheme", path: "/bookings", header: "bearer " + valid, wantCode: http.StatusOK, wantBody: "frontdesk"},
		{name: "query token for websockets", path: "/bookings?token=" + valid, wantCode: http.StatusOK, wantBody: "frontdesk"},
		{name: "missing", path: "/bookings", wantCode: http.StatusUnauthorized, wantBody: "AUTH_HEADER_MISSING"},
		{name: "basic scheme", path: "/bookings", header: "Basic ZGVzazpwdw==", wantCode: http.StatusUnauthorized, wantBody: "INVALID_AUTH_FORMAT"},
		{name: "garbage", path: "/bookings", header: "Bearer not-a-jwt", wantCode: http.StatusUnauthorized, wantBody: "INVALID_TOKEN"},
		{name: "signed with another secret", path: "/bookings", header: "Bearer " + foreign, wantCode: http.StatusUnauthorized, wantBody: "INVALID_TOKEN"},
	}

	router := protectedRouter(t, issuer)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
