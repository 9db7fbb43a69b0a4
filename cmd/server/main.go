package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/sportweather/sportweather-api/configs"
	"github.com/sportweather/sportweather-api/internal/application/services"
	"github.com/sportweather/sportweather-api/internal/core/ports"
	"github.com/sportweather/sportweather-api/internal/infrastructure/db"
	"github.com/sportweather/sportweather-api/internal/infrastructure/email"
	"github.com/sportweather/sportweather-api/internal/infrastructure/health"
	"github.com/sportweather/sportweather-api/internal/infrastructure/httpserver"
	"github.com/sportweather/sportweather-api/internal/infrastructure/openmeteo"
	"github.com/sportweather/sportweather-api/internal/infrastructure/redis"
	"github.com/sportweather/sportweather-api/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting SportWeather API...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Redis-backed repositories and the forecast cache
	tokenRepo := repositories.NewTokenRedisRepository(redisClient, logger)
	rateLimitRepo := repositories.NewRateLimitRedisRepository(redisClient)
	forecastCache := redis.NewRedisCache(redisClient, "appcache")

	// Access record storage. City tracking uses Postgres directly; support
	// message tracking wraps it in a failover decorator so a database outage
	// degrades to in-memory counting instead of losing the cap entirely.
	accessRecordRepo := repositories.NewAccessRecordRepository(database, logger)
	fallbackAccessRepo := repositories.NewMemoryAccessRecordRepository()
	supportAccessRepo := repositories.NewFailoverAccessRecordRepository(accessRecordRepo, fallbackAccessRepo, logger)

	userRepo := repositories.NewUserRepository(database, logger)

	// Ledgers: one per storage arrangement, shared semantics
	cityLedger := services.NewAccessLedgerService(accessRecordRepo, logger)
	supportLedger := services.NewAccessLedgerService(supportAccessRepo, logger)

	emailConfig := &email.EmailConfig{
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
		SupportEmail:   cfg.Email.SupportEmail,
		SupportName:    cfg.Email.SupportName,
	}
	emailService := email.NewEmailService(emailConfig, logger)

	weatherProvider := openmeteo.NewClient(&cfg.Weather, logger)

	// Wire all services with their repository dependencies
	userService := services.NewUserService(userRepo, logger)
	authService := services.NewAuthService(userRepo, tokenRepo, &cfg.JWT, logger)

	cityAccessService := services.NewCityAccessService(cityLedger, &services.CityQuotaConfig{
		Capacity: cfg.Quota.CityCapacity,
		Period:   cfg.Quota.CityPeriod,
	}, logger)
	supportService := services.NewSupportService(supportLedger, emailService, &services.SupportQuotaConfig{
		Capacity: cfg.Quota.SupportCapacity,
		Period:   cfg.Quota.SupportPeriod,
	}, logger)
	forecastService := services.NewForecastService(weatherProvider, cityAccessService, forecastCache, cfg.Weather.CacheTTL, logger)

	requestLimiterConfig := &services.RequestLimiterConfig{
		DefaultRequestsPerMinute: cfg.RateLimit.DefaultRequestsPerMinute,
		BurstMultiplier:          cfg.RateLimit.BurstMultiplier,
		Window:                   cfg.RateLimit.Window,
		KeyPrefix:                cfg.RateLimit.KeyPrefix,
	}
	requestLimiter := services.NewRequestLimiterService(rateLimitRepo, requestLimiterConfig, logger)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Environment:    cfg.Server.Environment,
	}

	// Initialize HTTP server using ServerDeps for clearer wiring
	deps := httpserver.ServerDeps{
		UserService:       userService,
		AuthService:       authService,
		ForecastService:   forecastService,
		CityAccessService: cityAccessService,
		SupportService:    supportService,
		RequestLimiter:    requestLimiter,
		HealthCheckers:    hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
