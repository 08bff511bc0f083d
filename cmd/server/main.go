package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PulseFit-Gym-Platform/service-pricing/internal/application"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/auth"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/config"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/database"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/events"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/handler"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/health"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/kafka"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/logger"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/middleware"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, "service-pricing")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting service-pricing",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}

	db, err := database.Connect(dbConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.PricingModel{}); err != nil {
			zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		// The at-most-one-active invariant lives in the database as well.
		if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_pricing_records_active_code
			ON pricing_records (pricing_code) WHERE is_active`).Error; err != nil {
			zapLogger.Fatal("failed to create active-code index", zap.Error(err))
		}
		zapLogger.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), "migrations", zapLogger); err != nil {
			zapLogger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, 15*time.Minute)

	// Initialize Kafka producer and event publisher
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, zapLogger)
	defer kafkaProducer.Close()
	eventPublisher := events.NewPublisher(kafkaProducer, zapLogger)

	// Initialize repository and application service
	pricingRepo := repository.NewPricingRepository(db)
	pricingService := application.NewPricingService(pricingRepo, eventPublisher, zapLogger)

	// Initialize HTTP handlers
	pricingHandler := handler.NewPricingHandler(pricingService)
	adminHandler := handler.NewAdminPricingHandler(pricingService, zapLogger)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.LoggerMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-pricing")
	healthHandler.RegisterRoutes(router)

	// Register pricing routes
	apiV1 := router.Group("/api/v1")
	pricingHandler.RegisterRoutes(apiV1)
	adminHandler.RegisterRoutes(apiV1, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down service-pricing...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("service-pricing stopped")
}
