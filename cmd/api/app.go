package main

import (
	"fmt"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resortbooking/internal/config"
	"resortbooking/internal/database"
	"resortbooking/internal/middleware"
	"resortbooking/internal/modules/amenity"
	"resortbooking/internal/modules/auth"
	"resortbooking/internal/modules/booking"
	"resortbooking/internal/modules/expense"
	"resortbooking/internal/modules/feed"
	"resortbooking/internal/modules/ledger"
	"resortbooking/internal/modules/report"
	"resortbooking/internal/pkg/jwt"
	"resortbooking/internal/pkg/metrics"
	"resortbooking/internal/repository"
)

type app struct {
	db     *gorm.DB
	router *gin.Engine
	auth   *auth.Service
	hub    *feed.Hub
}

func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	dbLevel := logger.Warn
	if cfg.IsProdLike() {
		dbLevel = logger.Error
	}
	db, err := database.Connect(cfg.DatabaseURL, database.Options{Log: log, LogLevel: dbLevel})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	node, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		return nil, fmt.Errorf("snowflake node: %w", err)
	}

	a := &app{db: db, hub: feed.NewHub(log.Named("feed"))}
	a.router = a.routes(cfg, repository.NewStore(db, node), log)
	return a, nil
}

func (a *app) routes(cfg *config.Config, store repository.Store, log *zap.Logger) *gin.Engine {
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New(metrics.Config{ServiceName: "resortbooking", Environment: cfg.Env})
	tokens := jwt.New(cfg.JWTSecret, cfg.TokenTTL)
	a.auth = auth.NewService(cfg.OperatorUsername, cfg.OperatorPasswordHash, tokens, log.Named("auth"))

	cancels := ledger.NewService(store, log.Named("ledger"))
	bookingService := booking.NewService(store, cancels, a.hub, m, log.Named("booking"))
	reportService := report.NewService(store, log.Named("report"))
	expenseService := expense.NewService(store, log.Named("expense"))

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(log),
		middleware.AccessLogger(log.Named("http")),
		middleware.CORS(cfg.CORSOrigins),
		m.GinMiddleware(),
	)

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := a.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	v1 := r.Group("/api/v1")
	auth.NewHandler(a.auth).RegisterPublicRoutes(v1)

	protected := v1.Group("")
	if a.auth.Enabled() {
		protected.Use(middleware.JWTAuth(tokens))
	} else {
		log.Warn("OPERATOR_PASSWORD_HASH not set, API is running without authentication")
	}
	{
		booking.NewHandler(bookingService).RegisterRoutes(protected)
		amenity.NewHandler().RegisterRoutes(protected)
		report.NewHandler(reportService).RegisterRoutes(protected)
		expense.NewHandler(expenseService).RegisterRoutes(protected)
		feed.NewHandler(a.hub, cfg.CORSOrigins).RegisterRoutes(protected)
	}

	return r
}

func (a *app) Close() {
	a.hub.Close()
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
