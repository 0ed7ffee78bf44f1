package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

type tokenIssuer interface {
	GenerateToken(operator string) (string, time.Time, error)
}

// Service authenticates the single resort operator against a bcrypt hash
// taken from configuration.
type Service struct {
	operator     string
	passwordHash []byte
	jwt          tokenIssuer
	log          *zap.Logger
	now          func() time.Time

	mu             sync.Mutex
	failedAttempts int
	lockedUntil    time.Time
}

func NewService(operator, passwordHash string, jwt tokenIssuer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		operator:     operator,
		passwordHash: []byte(passwordHash),
		jwt:          jwt,
		log:          log,
		now:          time.Now,
	}
}

// Enabled reports whether a password hash is configured. Without one the API
// runs open, which is how the single-machine desk install works.
func (s *Service) Enabled() bool {
	return len(s.passwordHash) > 0
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.lockedUntil.After(now) {
		return nil, ErrAccountLocked
	}

	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(req.Username)), []byte(s.operator)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password))
	if !userOK || passErr != nil {
		s.failedAttempts++
		s.log.Warn("operator login failed",
			zap.String("username", req.Username),
			zap.Int("failed_attempts", s.failedAttempts),
		)
		if s.failedAttempts >= maxFailedLoginAttempts {
			s.lockedUntil = now.Add(lockoutDuration)
			s.failedAttempts = 0
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	s.failedAttempts = 0
	s.lockedUntil = time.Time{}

	token, expires, err := s.jwt.GenerateToken(s.operator)
	if err != nil {
		return nil, err
	}

	s.log.Info("operator logged in", zap.String("operator", s.operator))
	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expires,
		Operator:    s.operator,
	}, nil
}

// HashPassword produces the value for OPERATOR_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
