package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dclair/task-master/internal/config"
	"github.com/dclair/task-master/internal/database"
	"github.com/dclair/task-master/internal/job"
	"github.com/dclair/task-master/internal/mailer"
	"github.com/dclair/task-master/internal/metrics"
	"github.com/dclair/task-master/internal/repository"
)

func main() {
	once := flag.Bool("once", false, "run a single sweep and exit")
	schedule := flag.String("schedule", "@every 15m", "cron schedule for the due date sweep")
	flag.Parse()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.New(database.Config{
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	var mail mailer.Mailer
	if cfg.Email.Host != "" && cfg.Email.Username != "" {
		mail = mailer.NewSMTPMailer(cfg.Email, logger)
	} else {
		mail = mailer.NewLogMailer(logger)
		logger.Warn("Email configuration incomplete, outgoing mail is logged only")
	}

	sweep := job.NewDueDateJob(
		repository.NewTaskRepository(db),
		repository.NewUserRepository(db),
		mail,
		metrics.New(),
		cfg.Site.URL,
		logger,
	)

	if *once {
		sweep.Run()
		return
	}

	c := cron.New()
	if _, err := c.AddJob(*schedule, sweep); err != nil {
		logger.Fatal("Invalid sweep schedule", zap.String("schedule", *schedule), zap.Error(err))
	}
	c.Start()
	logger.Info("Due date sweeper started", zap.String("schedule", *schedule))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down sweeper...")

	<-c.Stop().Done()
	logger.Info("Sweeper exited gracefully")
}

func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
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
