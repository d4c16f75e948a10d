package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yourusername/prop-insight/internal/config"
	"github.com/yourusername/prop-insight/internal/database"
	applogger "github.com/yourusername/prop-insight/internal/logger"
	"github.com/yourusername/prop-insight/internal/metrics"
	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/picks"
	"github.com/yourusername/prop-insight/internal/props"
	"github.com/yourusername/prop-insight/internal/repository"
	"github.com/yourusername/prop-insight/internal/roster"
	"github.com/yourusername/prop-insight/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile   string
	athleteQuery string
	market       string
	line         float64
	book         string
	opponent     string
	venue        string
	gameDateStr  string
	suggestPicks bool
	jsonOutput   bool

	logger        *logrus.Logger
	cfg           *config.Config
	db            *database.DB
	repos         *repository.Repositories
	normalizer    *roster.Normalizer
	predictionSvc *service.PredictionService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&athleteQuery, "athlete", "a", "", "Athlete name or external reference (required)")
	rootCmd.Flags().StringVarP(&market, "market", "m", props.MarketHits, "Prop market to predict")
	rootCmd.Flags().Float64VarP(&line, "line", "l", 0, "Posted line to predict against (required)")
	rootCmd.Flags().StringVarP(&book, "book", "b", "", "Sportsbook the line was posted by")
	rootCmd.Flags().StringVar(&opponent, "opponent", "", "Pin the opposing team instead of resolving the schedule")
	rootCmd.Flags().StringVar(&venue, "venue", "", "Pin the venue: home or away")
	rootCmd.Flags().StringVar(&gameDateStr, "date", "", "Game date (YYYY-MM-DD, defaults to today)")
	rootCmd.Flags().BoolVar(&suggestPicks, "picks", false, "Evaluate posted lines and suggest value picks")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the prediction as JSON")

	rootCmd.MarkFlagRequired("athlete")
	rootCmd.MarkFlagRequired("line")
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict a player prop outcome",
	Long:  `Resolves an athlete, rebuilds their historical summary and predicts a posted prop line with an over/under probability split.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer closeDependencies()
		return runPredict()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("PROP_INSIGHT")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

func setupDependencies() error {
	// Setup logger
	logger = logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	// Connect to database
	var err error
	db, err = database.NewDB(context.Background(), &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize repositories
	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	// Initialize the prediction pipeline
	normalizer = roster.NewNormalizer()
	dbResolver, err := roster.NewDBResolver(repos.Athlete, repos.GameStat, normalizer, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize resolver: %w", err)
	}
	resolver := roster.NewCachedResolver(dbResolver, &cfg.Cache, logger)

	params := service.PredictionParams(&cfg.Prediction)
	registry := props.NewRegistry(params)

	predictionSvc = service.NewPredictionService(
		resolver,
		props.NewAggregator(registry, nil, params, logger),
		props.NewBlender(params),
		repos.Prediction,
		repos.Outcome,
		repos.Game,
		service.NewPredictionCache(time.Duration(cfg.Cache.PredictionTTLSeconds)*time.Second, cfg.Cache.MaxEntries),
		applogger.NewAuditLogger(logger),
		applogger.NewPredictionLogger(logger),
		logger,
		0,
	)

	return nil
}

func closeDependencies() {
	if db != nil {
		db.Close()
	}
}

func runPredict() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req := &service.PropRequest{
		AthleteQuery: athleteQuery,
		Market:       market,
		Line:         line,
		Book:         book,
	}

	if gameDateStr != "" {
		gameDate, err := time.Parse("2006-01-02", gameDateStr)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", gameDateStr, err)
		}
		req.GameDate = gameDate
	}

	if opponent != "" {
		req.Opponent = normalizer.NormalizeTeam(opponent)
	}
	switch strings.ToLower(venue) {
	case "":
	case "home":
		isHome := true
		req.IsHome = &isHome
	case "away":
		isHome := false
		req.IsHome = &isHome
	default:
		return fmt.Errorf("invalid --venue %q: must be home or away", venue)
	}

	prediction, err := predictionSvc.PredictProp(ctx, req)
	if err != nil {
		return err
	}

	if suggestPicks {
		return displayPicks(ctx, prediction)
	}

	if jsonOutput {
		return printJSON(prediction)
	}

	displayPrediction(prediction)
	return nil
}

func displayPrediction(prediction *models.PropPrediction) {
	fmt.Println("\n╔════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                     Prop Prediction                            ║")
	fmt.Println("╚════════════════════════════════════════════════════════════════╝")

	side := props.DirectionOver
	probability := prediction.OverProbability
	if prediction.UnderProbability > prediction.OverProbability {
		side = props.DirectionUnder
		probability = prediction.UnderProbability
	}

	fmt.Printf("\nAthlete:     %s\n", athleteQuery)
	fmt.Printf("Market:      %s\n", prediction.Market)
	fmt.Printf("Line:        %.1f\n", prediction.Line)
	fmt.Printf("Predicted:   %.2f\n", prediction.Predicted)
	fmt.Printf("Lean:        %s (%.1f%%)\n", strings.ToUpper(side), probability*100)
	fmt.Printf("Confidence:  %.1f%%\n", prediction.Confidence*100)
	fmt.Printf("Sample:      %d games\n", prediction.SampleSize)

	if prediction.Confidence < cfg.Prediction.MinConfidenceThreshold {
		fmt.Printf("\n⚠ Confidence below the %.0f%% reporting threshold\n", cfg.Prediction.MinConfidenceThreshold*100)
	}

	fmt.Println()
}

func displayPicks(ctx context.Context, prediction *models.PropPrediction) error {
	start := time.Now()

	lines, err := latestLines(ctx, prediction)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Println("\nNo posted lines found for this athlete and market.")
		return nil
	}

	strategy := picks.NewValueStrategy()
	signals, err := strategy.Evaluate(ctx, picks.Context{
		Prediction:  prediction,
		Lines:       lines,
		CurrentTime: time.Now(),
	})
	metrics.RecordPickEvaluation(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("pick evaluation failed: %w", err)
	}

	taken := make([]picks.Signal, 0, len(signals))
	for _, signal := range signals {
		metrics.RecordPickSignal()
		outcome := "passed"
		if strategy.ShouldTake(signal) {
			outcome = "taken"
			taken = append(taken, signal)
		}
		metrics.RecordPickDecision(signal.Market, signal.Side, outcome)
	}

	if jsonOutput {
		return printJSON(taken)
	}

	fmt.Println("\n╔════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                     Value Pick Signals                         ║")
	fmt.Println("╚════════════════════════════════════════════════════════════════╝")

	if len(taken) == 0 {
		fmt.Printf("\nEvaluated %d posted line(s); no edge cleared the %s thresholds.\n\n",
			len(lines), strategy.Name())
		return nil
	}

	for _, signal := range taken {
		fmt.Printf("\n%s %s %.1f @ %s\n", strings.ToUpper(signal.Side), signal.Market, signal.Line, signal.Book)
		fmt.Printf("  Price:       %s\n", signal.Price.StringFixed(2))
		fmt.Printf("  Edge:        %+.1f%%\n", signal.Edge*100)
		fmt.Printf("  EV:          %+.3f\n", signal.ExpectedValue)
		fmt.Printf("  Confidence:  %.1f%%\n", signal.Confidence*100)
		fmt.Printf("  Stake:       %.2f units\n", signal.Stake)
		fmt.Printf("  Reasoning:   %s\n", signal.Reasoning)
	}
	fmt.Println()

	return nil
}

// latestLines returns the freshest stored snapshot per book for the
// prediction's market
func latestLines(ctx context.Context, prediction *models.PropPrediction) ([]*models.PropLine, error) {
	end := time.Now()
	start := end.Add(-48 * time.Hour)

	history, err := repos.PropLine.GetByAthleteAndMarket(ctx, prediction.AthleteID, prediction.Market, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load posted lines: %w", err)
	}

	latestByBook := make(map[string]*models.PropLine)
	for _, propLine := range history {
		current, ok := latestByBook[propLine.Book]
		if !ok || propLine.Time.After(current.Time) {
			latestByBook[propLine.Book] = propLine
		}
	}

	lines := make([]*models.PropLine, 0, len(latestByBook))
	for _, propLine := range latestByBook {
		lines = append(lines, propLine)
	}
	return lines, nil
}

func printJSON(v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
