package auth

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type mockIssuer struct {
	mock.Mock
}

func (m *mockIssuer) GenerateToken(operator string) (string, time.Time, error) {
	args := m.Called(operator)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func newTestService(t *testing.T, issuer *mockIssuer) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService("frontdesk", string(hash), issuer, zap.NewNop())
}

func TestLogin_Success(t *testing.T) {
	issuer := new(mockIssuer)
	expires := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	issuer.On("GenerateToken", "frontdesk").Return("signed.jwt.token", expires, nil)

	svc := newTestService(t, issuer)
	res, err := svc.Login(context.Background(), LoginRequest{Username: "frontdesk", Password: "s3cret-pass"})

	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", res.AccessToken)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, expires, res.ExpiresAt)
	issuer.AssertExpectations(t)
}

func TestLogin_WrongCredentials(t *testing.T) {
	svc := newTestService(t, new(mockIssuer))

	_, err := svc.Login(context.Background(), LoginRequest{Username: "frontdesk", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "manager", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	issuer := new(mockIssuer)
	issuer.On("GenerateToken", "frontdesk").Return("tok", time.Now(), nil)
	svc := newTestService(t, issuer)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	for i := 1; i < maxFailedLoginAttempts; i++ {
		_, err := svc.Login(context.Background(), LoginRequest{Username: "frontdesk", Password: "bad"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err := svc.Login(context.Background(), LoginRequest{Username: "frontdesk", Password: "bad"})
	require.ErrorIs(t, err, ErrAccountLocked)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "frontdesk", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrAccountLocked)

	now = now.Add(lockoutDuration + time.Second)
	_, err = svc.Login(context.Background(), LoginRequest{Username: "frontdesk", Password: "s3cret-pass"})
	assert.NoError(t, err)
}

func TestLogin_DisabledWithoutHash(t *testing.T) {
	svc := NewService("frontdesk", "", new(mockIssuer), nil)
	assert.False(t, svc.Enabled())

	_, err := svc.Login(context.Background(), LoginRequest{Username: "frontdesk", Password: "x"})
	assert.ErrorIs(t, err, ErrAuthDisabled)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct horse")))
}

func TestHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := new(mockIssuer)
	issuer.On("GenerateToken", "frontdesk").Return("tok", time.Now(), nil)

	r := gin.New()
	NewHandler(newTestService(t, issuer)).RegisterPublicRoutes(r.Group("/api/v1"))

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"username":"frontdesk","password":"s3cret-pass"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"tok"`)

	w = post(`{"username":"frontdesk","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(`{"username":"frontdesk"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
