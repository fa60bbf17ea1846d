package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dclair/task-master/internal/client"
	"github.com/dclair/task-master/internal/config"
	"github.com/dclair/task-master/internal/database"
	"github.com/dclair/task-master/internal/mailer"
	"github.com/dclair/task-master/internal/metrics"
	"github.com/dclair/task-master/internal/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Task Master API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("site_url", cfg.Site.URL),
	)

	// Initialize database
	db, err := database.New(database.Config{
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	// Initialize metrics and query instrumentation
	m := metrics.New()
	database.RegisterMetricsCallbacks(db, m)
	stopStats := database.StartDBStatsCollector(db, m)
	defer close(stopStats)
	logger.Info("Metrics initialized")

	// Initialize Redis (optional, disables the progress cache when absent)
	redisClient, err := database.NewRedis(cfg.Redis.URL, logger)
	if err != nil {
		logger.Warn("Failed to connect to Redis, progress caching disabled", zap.Error(err))
		redisClient = nil
	}

	// Initialize S3 client (optional, disables avatar uploads when absent)
	var s3Client client.S3ClientInterface
	if cfg.S3.Bucket != "" && cfg.S3.Region != "" {
		s3, err := client.NewS3Client(&cfg.S3)
		if err != nil {
			logger.Warn("Failed to initialize S3 client, avatar uploads disabled", zap.Error(err))
		} else {
			s3Client = s3
			logger.Info("S3 client initialized",
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("region", cfg.S3.Region),
			)
		}
	} else {
		logger.Warn("S3 configuration incomplete, avatar uploads disabled")
	}

	// Initialize mailer
	var mail mailer.Mailer
	if cfg.Email.Host != "" && cfg.Email.Username != "" {
		mail = mailer.NewSMTPMailer(cfg.Email, logger)
		logger.Info("SMTP mailer initialized", zap.String("host", cfg.Email.Host))
	} else {
		mail = mailer.NewLogMailer(logger)
		logger.Warn("Email configuration incomplete, outgoing mail is logged only")
	}

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		DB:       db,
		Redis:    redisClient,
		S3Client: s3Client,
		Mailer:   mail,
		Metrics:  m,
		Logger:   logger,
		App:      cfg,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Task Master API started successfully", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
