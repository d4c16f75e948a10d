// Package main provides the entry point for the streak report CLI tool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/prop-insight/internal/config"
	"github.com/yourusername/prop-insight/internal/database"
	applogger "github.com/yourusername/prop-insight/internal/logger"
	"github.com/yourusername/prop-insight/internal/props"
	"github.com/yourusername/prop-insight/internal/repository"
	"github.com/yourusername/prop-insight/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		lookback   = flag.Int("lookback", 0, "Override the lookback window in days")
		maxEntries = flag.Int("max", 0, "Override the maximum number of report entries")
		market     = flag.String("market", "", "Only report streaks for this market")
		jsonOutput = flag.Bool("json", false, "Emit the report as JSON")
	)
	flag.Parse()

	logger := newLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := loadConfigWithSecrets(*configPath, logger)
	if *lookback > 0 {
		cfg.Trends.LookbackDays = *lookback
	}
	if *maxEntries > 0 {
		cfg.Trends.MaxEntries = *maxEntries
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		logger.Fatalf("Failed to initialize repositories: %v", err)
	}

	params := service.PredictionParams(&cfg.Prediction)
	trendSvc := service.NewTrendService(
		repos.Outcome,
		repos.Athlete,
		props.NewDetector(params, logger),
		applogger.NewPredictionLogger(logger),
		logger,
		&cfg.Trends,
	)

	entries, err := trendSvc.GenerateReport(ctx)
	if err != nil {
		logger.Fatalf("Failed to generate trend report: %v", err)
	}

	if *market != "" {
		entries = filterByMarket(entries, *market)
	}

	if *jsonOutput {
		encoded, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			logger.Fatalf("Failed to encode report: %v", err)
		}
		fmt.Println(string(encoded))
		return
	}

	fmt.Println(trendSvc.RenderConsole(entries))
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func loadConfigWithSecrets(path string, logger *logrus.Logger) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logger.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logger.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func filterByMarket(entries []props.TrendEntry, market string) []props.TrendEntry {
	filtered := make([]props.TrendEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.EqualFold(entry.MarketKey, market) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
