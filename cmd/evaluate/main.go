// Package main provides the entry point for the evaluation CLI tool.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/prop-insight/internal/config"
	"github.com/yourusername/prop-insight/internal/database"
	"github.com/yourusername/prop-insight/internal/evaluation"
	"github.com/yourusername/prop-insight/internal/metrics"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		startDate  = flag.String("start-date", "", "Override start date (YYYY-MM-DD)")
		endDate    = flag.String("end-date", "", "Override end date (YYYY-MM-DD)")
		markets    = flag.String("markets", "", "Comma-separated market override")
		mode       = flag.String("mode", "all", "Evaluation mode: replay, bootstrap, windows, all")
		output     = flag.String("output", "", "Override output path for the JSON export")
		htmlPath   = flag.String("html", "", "Write an HTML report to this path")
		csvPath    = flag.String("csv", "", "Write a CSV summary to this path")
		persist    = flag.Bool("persist", false, "Persist the result row even when config disables it")
	)
	flag.Parse()

	logger := newLogger()
	ctx := context.Background()

	cfg := loadConfigWithSecrets(*configPath, logger)
	evalCfg := buildEvalConfig(cfg, *startDate, *endDate, *markets, *output, *persist, logger)
	engine := buildEngine(ctx, cfg, evalCfg, logger)
	defer engine.Close(ctx)

	logger.WithFields(logrus.Fields{"mode": *mode, "markets": evalCfg.Markets}).Info("Starting evaluation")
	runMode(ctx, engine, evalCfg, *mode, *htmlPath, *csvPath)
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
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

func buildEvalConfig(cfg *config.Config, startOverride, endOverride, marketsOverride, output string, persist bool, logger *logrus.Logger) evaluation.Config {
	evalCfg, err := evaluation.FromConfig(&cfg.Evaluation)
	if err != nil {
		logger.Fatalf("Invalid evaluation config: %v", err)
	}
	if startOverride != "" {
		parsed, err := time.Parse("2006-01-02", startOverride)
		if err != nil {
			logger.Fatalf("Invalid start date: %v", err)
		}
		evalCfg.StartDate = parsed
	}
	if endOverride != "" {
		parsed, err := time.Parse("2006-01-02", endOverride)
		if err != nil {
			logger.Fatalf("Invalid end date: %v", err)
		}
		evalCfg.EndDate = parsed
	}
	if marketsOverride != "" {
		evalCfg.Markets = splitMarkets(marketsOverride)
	}
	if output != "" {
		evalCfg.OutputPath = output
		evalCfg.ExportEnabled = true
	}
	if persist {
		evalCfg.PersistResults = true
	}
	if err := evalCfg.Validate(); err != nil {
		logger.Fatalf("Invalid evaluation config: %v", err)
	}
	return evalCfg
}

func splitMarkets(raw string) []string {
	parts := strings.Split(raw, ",")
	markets := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			markets = append(markets, trimmed)
		}
	}
	return markets
}

func buildEngine(ctx context.Context, cfg *config.Config, evalCfg evaluation.Config, logger *logrus.Logger) *evaluation.Engine {
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	engine, err := evaluation.NewEngine(evalCfg, db, logger)
	if err != nil {
		logger.Fatalf("Failed to create engine: %v", err)
	}
	return engine
}

func runMode(ctx context.Context, engine *evaluation.Engine, cfg evaluation.Config, mode, htmlPath, csvPath string) {
	switch mode {
	case "replay":
		runReplayOnly(ctx, engine)
	case "bootstrap":
		runBootstrapOnly(ctx, engine, cfg)
	case "windows":
		runWindowsOnly(ctx, engine, cfg)
	case "all":
		runAllMethods(ctx, engine, cfg, htmlPath, csvPath)
	default:
		engine.Logger().Fatalf("Unsupported mode: %s", mode)
	}
}

// runReplay executes the chronological replay, recording the run counter on
// both outcomes
func runReplay(ctx context.Context, engine *evaluation.Engine) (*evaluation.EvalState, evaluation.Metrics) {
	start := time.Now()
	state, evalMetrics, err := engine.Run(ctx, engine.Config().StartDate, engine.Config().EndDate)
	if err != nil {
		metrics.RecordEvaluationRun(evaluation.MethodChronologicalReplay, "failed")
		engine.Logger().Fatalf("Evaluation replay failed: %v", err)
	}
	metrics.RecordEvaluationRun(evaluation.MethodChronologicalReplay, "completed")
	metrics.RecordEvaluationDuration(time.Since(start).Seconds())
	return state, evalMetrics
}

func runReplayOnly(ctx context.Context, engine *evaluation.Engine) {
	_, evalMetrics := runReplay(ctx, engine)
	result := evaluation.BuildResult(evalMetrics, evaluation.BootstrapResult{}, evaluation.WindowResult{})
	engine.Logger().Info(evaluation.GenerateConsoleReport(result))
}

func runBootstrapOnly(ctx context.Context, engine *evaluation.Engine, cfg evaluation.Config) {
	state, _ := runReplay(ctx, engine)
	result, err := evaluation.RunBootstrap(ctx, state.Picks, evaluation.BootstrapConfig{
		Iterations: cfg.BootstrapIterations,
	})
	if err != nil {
		engine.Logger().Fatalf("Bootstrap failed: %v", err)
	}
	engine.Logger().WithFields(logrus.Fields{
		"mean_hit_rate": result.MeanHitRate,
		"std_hit_rate":  result.StdHitRate,
	}).Info("Bootstrap completed")
}

func runWindowsOnly(ctx context.Context, engine *evaluation.Engine, cfg evaluation.Config) {
	state, _ := runReplay(ctx, engine)
	result := evaluation.EvaluateWindows(state.Picks, cfg.StartDate, cfg.EndDate, evaluation.WindowConfig{
		Windows:            cfg.ConsistencyWindows,
		MinScoredPerWindow: cfg.MinGradedGames,
	})
	engine.Logger().WithFields(logrus.Fields{
		"consistency": result.ConsistencyScore,
		"drift":       result.DriftScore,
	}).Info("Window evaluation completed")
}

func runAllMethods(ctx context.Context, engine *evaluation.Engine, cfg evaluation.Config, htmlPath, csvPath string) {
	state, evalMetrics := runReplay(ctx, engine)

	bootstrap, err := evaluation.RunBootstrap(ctx, state.Picks, evaluation.BootstrapConfig{
		Iterations: cfg.BootstrapIterations,
	})
	if err != nil {
		engine.Logger().Fatalf("Bootstrap failed: %v", err)
	}

	windows := evaluation.EvaluateWindows(state.Picks, cfg.StartDate, cfg.EndDate, evaluation.WindowConfig{
		Windows:            cfg.ConsistencyWindows,
		MinScoredPerWindow: cfg.MinGradedGames,
	})

	result := evaluation.BuildResult(evalMetrics, bootstrap, windows)
	engine.Logger().Info(evaluation.GenerateConsoleReport(result))

	for market, marketMetrics := range evalMetrics.PerMarket {
		metrics.RecordBrierScore(market, evaluation.MethodChronologicalReplay, marketMetrics.BrierScore)
		metrics.UpdateCompositeScore(market, result.CompositeScore)
	}

	if cfg.ExportEnabled {
		if err := evaluation.ExportToJSON(result, cfg.OutputPath); err != nil {
			engine.Logger().Fatalf("Failed to export JSON report: %v", err)
		}
	}
	if htmlPath != "" {
		if err := evaluation.GenerateHTMLReport(result, htmlPath); err != nil {
			engine.Logger().Fatalf("Failed to write HTML report: %v", err)
		}
	}
	if csvPath != "" {
		if err := evaluation.GenerateCSVExport(result, csvPath); err != nil {
			engine.Logger().Fatalf("Failed to write CSV summary: %v", err)
		}
	}
	if cfg.PersistResults {
		if err := evaluation.ExportToDatabase(ctx, result, engine.Repositories().EvaluationResult, cfg.Markets); err != nil {
			engine.Logger().Fatalf("Failed to persist evaluation result: %v", err)
		}
	}
}
