package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultJWTSecret = "change-me-jwt-secret"

type Config struct {
	Env      string `envconfig:"APP_ENV" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Port     string `envconfig:"PORT" default:"8080"`

	DatabaseURL   string `envconfig:"DATABASE_URL" default:"resort.db"`
	SnowflakeNode int64  `envconfig:"SNOWFLAKE_NODE" default:"1"`

	JWTSecret            string        `envconfig:"JWT_SECRET" default:"change-me-jwt-secret"`
	TokenTTL             time.Duration `envconfig:"TOKEN_TTL" default:"12h"`
	OperatorUsername     string        `envconfig:"OPERATOR_USERNAME" default:"admin"`
	OperatorPasswordHash string        `envconfig:"OPERATOR_PASSWORD_HASH"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.Env)
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be > 0")
	}
	if cfg.SnowflakeNode < 0 || cfg.SnowflakeNode > 1023 {
		return fmt.Errorf("SNOWFLAKE_NODE must be between 0 and 1023")
	}
	if cfg.OperatorPasswordHash != "" && strings.TrimSpace(cfg.OperatorUsername) == "" {
		return fmt.Errorf("OPERATOR_USERNAME must be set when OPERATOR_PASSWORD_HASH is set")
	}

	if isProdLike(cfg.Env) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if strings.TrimSpace(cfg.OperatorPasswordHash) == "" {
			return fmt.Errorf("in prod/release OPERATOR_PASSWORD_HASH must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
