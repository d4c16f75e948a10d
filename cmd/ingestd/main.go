// Package main provides the entry point for the prop insight ingestion daemon.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/prop-insight/internal/config"
	"github.com/yourusername/prop-insight/internal/database"
	"github.com/yourusername/prop-insight/internal/datasource"
	"github.com/yourusername/prop-insight/internal/health"
	applogger "github.com/yourusername/prop-insight/internal/logger"
	"github.com/yourusername/prop-insight/internal/metrics"
	"github.com/yourusername/prop-insight/internal/oddsfeed"
	"github.com/yourusername/prop-insight/internal/props"
	"github.com/yourusername/prop-insight/internal/repository"
	"github.com/yourusername/prop-insight/internal/roster"
	"github.com/yourusername/prop-insight/internal/scheduler"
	"github.com/yourusername/prop-insight/internal/service"
	"github.com/yourusername/prop-insight/internal/tracing"
)

// Build information set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := applogger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Prop Insight ingestion daemon starting")

	// Initialize X-Ray tracing
	if cfg.Tracing.Enabled {
		if err := tracing.Initialize(tracing.Config{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.Tracing.Version,
			Enabled:        true,
			SamplingRate:   0.1,
			DaemonAddr:     cfg.Tracing.DaemonAddress,
		}, appLog); err != nil {
			appLog.WithError(err).Warn("Failed to initialize X-Ray tracing")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	// Initialize repositories
	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	// Component loggers
	ingestLog := log.New(os.Stdout, "ingestion: ", log.LstdFlags)
	lineLog := log.New(os.Stdout, "line-sync: ", log.LstdFlags)
	httpLog := log.New(os.Stdout, "http: ", log.LstdFlags)
	schedLog := log.New(os.Stdout, "scheduler: ", log.LstdFlags)

	// Initialize box score sources
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), httpLog)
	factory := datasource.NewFactory(cfg, ingestLog)
	sources, err := factory.NewDataSources(cfg.Ingestion, httpClient)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize data sources")
	}
	if len(sources) == 0 {
		appLog.Fatal("No enabled data sources configured")
	}

	primarySource := primarySourceName(cfg.Ingestion.Sources)
	appLog.WithFields(logrus.Fields{
		"sources": len(sources),
		"primary": primarySource,
	}).Info("Data sources initialized")

	// Initialize services
	audit := applogger.NewAuditLogger(appLog)
	plog := applogger.NewPredictionLogger(appLog)

	ingestionSvc := service.NewIngestionService(
		sources,
		repos.Athlete,
		repos.GameStat,
		repos.Game,
		service.NewDataValidator(ingestLog),
		roster.NewNormalizer(),
		audit,
		ingestLog,
		cfg.StatsFeed.BatchSize,
	)

	oddsClient := oddsfeed.NewOddsFeedClient(&cfg.OddsFeed, httpClient, lineLog)
	authSvc := oddsfeed.NewAuthService(oddsClient, lineLog)
	lineSyncSvc := service.NewLineSyncService(oddsClient, authSvc, repos.Athlete, repos.PropLine, repos.Game, lineLog)

	params := service.PredictionParams(&cfg.Prediction)
	registry := props.NewRegistry(params)
	gradingSvc := service.NewGradingService(repos.Outcome, repos.GameStat, registry, audit, plog, appLog, 0)
	trendSvc := service.NewTrendService(repos.Outcome, repos.Athlete, props.NewDetector(params, appLog), plog, appLog, &cfg.Trends)

	// Schedule recurring jobs
	sched := scheduler.NewScheduler(ingestionSvc, lineSyncSvc, gradingSvc, trendSvc, schedLog)
	schedule := cfg.Ingestion.Schedule

	if err := sched.ScheduleStatSync(schedule.StatSync, primarySource); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule stat sync")
	}
	if err := sched.ScheduleLineSync(schedule.LineSync); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule line sync")
	}
	if err := sched.ScheduleGrading(schedule.Grading); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule grading")
	}
	if cfg.Features.TrendReportsEnabled {
		if err := sched.ScheduleTrendReport(schedule.TrendReport); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule trend report")
		}
	}
	if err := sched.ScheduleLivePolling(schedule.LivePollingIntervalSeconds, primarySource); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule live polling")
	}

	// Start health check server
	healthSrv := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		DB:          db,
	})
	healthSrv.RegisterCheck("scheduler", func(ctx context.Context) error {
		if !sched.IsRunning() {
			return fmt.Errorf("scheduler not running")
		}
		return nil
	})
	if err := healthSrv.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Start metrics server
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			addr := ":" + strconv.Itoa(cfg.Metrics.Port)

			appLog.WithFields(logrus.Fields{
				"addr": addr,
				"path": cfg.Metrics.Path,
			}).Info("Metrics server starting")

			if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	// Start scheduler
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	healthSrv.SetReady(true)

	// Start live line collection when enabled
	if cfg.Features.AdvancedAnalyticsEnabled {
		if err := lineSyncSvc.StartLiveCollection(ctx, 256, 5*time.Second); err != nil {
			appLog.WithError(err).Warn("Failed to start live line collection")
		} else {
			appLog.Info("Live line collection started")
		}
	}

	appLog.WithFields(logrus.Fields{
		"jobs":     len(sched.Entries()),
		"next_run": sched.GetNextRun().Format(time.RFC3339),
	}).Info("Ingestion daemon running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	// Graceful shutdown
	appLog.Info("Initiating graceful shutdown...")
	healthSrv.SetReady(false)
	cancel()

	if cfg.Features.AdvancedAnalyticsEnabled {
		if err := lineSyncSvc.StopLiveCollection(); err != nil {
			appLog.WithError(err).Error("Error stopping live line collection")
		}
	}

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}

	// Give components time to cleanup
	time.Sleep(2 * time.Second)

	appLog.Info("Prop Insight ingestion daemon shut down successfully")
}

func primarySourceName(sources []config.DataSourceConfig) string {
	for _, src := range sources {
		if src.Enabled {
			return src.Name
		}
	}
	return ""
}
