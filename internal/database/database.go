package database

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"resortbooking/internal/repository"
)

// Options tunes the connection. The zero value is fine for tests.
type Options struct {
	Log      *zap.Logger
	LogLevel logger.LogLevel
}

// Connect opens the store. postgres:// DSNs use PostgreSQL, anything else is a
// SQLite file (or in-memory DSN) served by the pure Go modernc driver.
func Connect(dsn string, opts Options) (*gorm.DB, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	level := opts.LogLevel
	if level == 0 {
		level = logger.Silent
	}

	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Info("connecting to postgres")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Info("using sqlite store", zap.String("dsn", dsn))

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}

	// one writer at a time; also keeps in-memory databases on a single connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Migrate creates or updates the store schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(repository.Models()...)
}
