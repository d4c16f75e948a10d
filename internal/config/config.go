// Package config provides configuration management for the Prop Insight application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	StatsFeed  StatsFeedConfig  `mapstructure:"stats_feed" validate:"required"`
	OddsFeed   OddsFeedConfig   `mapstructure:"odds_feed" validate:"required"`
	Prediction PredictionConfig `mapstructure:"prediction" validate:"required"`
	Trends     TrendsConfig     `mapstructure:"trends" validate:"required"`
	Ingestion  IngestionConfig  `mapstructure:"ingestion" validate:"required"`
	Evaluation EvaluationConfig `mapstructure:"evaluation" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Features   FeaturesConfig   `mapstructure:"features" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// StatsFeedConfig represents the box-score provider configuration
type StatsFeedConfig struct {
	APIURL            string  `mapstructure:"api_url" validate:"required,url"`
	APIKey            string  `mapstructure:"api_key"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	Burst             int     `mapstructure:"burst" validate:"required,gt=0"`
	RetryAttempts     int     `mapstructure:"retry_attempts" validate:"gte=0"`
	BatchSize         int     `mapstructure:"batch_size" validate:"required,gt=0"`
}

// OddsFeedConfig represents the sportsbook line provider configuration
type OddsFeedConfig struct {
	APIURL              string   `mapstructure:"api_url" validate:"required,url"`
	StreamURL           string   `mapstructure:"stream_url" validate:"required"`
	APIKey              string   `mapstructure:"api_key"`
	TimeoutSeconds      int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	Sportsbooks         []string `mapstructure:"sportsbooks" validate:"required,min=1"`
	PollIntervalSeconds int      `mapstructure:"poll_interval_seconds" validate:"required,gt=0"`
}

// PredictionConfig represents the prediction core parameters. The fallback
// coefficients are heuristic estimates; they are configurable precisely
// because their accuracy has not been validated against real box scores.
type PredictionConfig struct {
	Markets                []string `mapstructure:"markets" validate:"required,min=1,markets"`
	MinConfidenceThreshold float64  `mapstructure:"min_confidence_threshold" validate:"gte=0,lte=1"`

	RBIPerHit            float64 `mapstructure:"rbi_per_hit" validate:"required,gt=0"`
	TotalBasesPerHit     float64 `mapstructure:"total_bases_per_hit" validate:"required,gt=0"`
	TotalBasesPerHomeRun float64 `mapstructure:"total_bases_per_home_run" validate:"required,gt=0"`

	RecentFormWindow    int     `mapstructure:"recent_form_window" validate:"required,gt=0"`
	RecentFormMinSample int     `mapstructure:"recent_form_min_sample" validate:"required,gt=0"`
	RecentFormWeight    float64 `mapstructure:"recent_form_weight" validate:"gte=0,lte=1"`
	HomeAwayWeight      float64 `mapstructure:"home_away_weight" validate:"gte=0,lte=1"`
	OpponentMinSample   int     `mapstructure:"opponent_min_sample" validate:"required,gt=0"`
	OpponentWeight      float64 `mapstructure:"opponent_weight" validate:"gte=0,lte=1"`

	FullSampleSize float64 `mapstructure:"full_sample_size" validate:"required,gt=0"`
	MinConsistency float64 `mapstructure:"min_consistency" validate:"gte=0,lte=1"`
	MinConfidence  float64 `mapstructure:"min_confidence" validate:"gte=0,lte=1"`
	MaxConfidence  float64 `mapstructure:"max_confidence" validate:"gte=0,lte=1"`

	DispersionEpsilon float64 `mapstructure:"dispersion_epsilon" validate:"required,gt=0"`

	MinGroupGames       int     `mapstructure:"min_group_games" validate:"required,gt=0"`
	MinStreakLength     int     `mapstructure:"min_streak_length" validate:"required,gt=0"`
	StreakBase          float64 `mapstructure:"streak_base" validate:"required,gt=0"`
	StreakStep          float64 `mapstructure:"streak_step" validate:"required,gt=0"`
	StreakConfidenceCap float64 `mapstructure:"streak_confidence_cap" validate:"required,gt=0,lte=100"`
}

// TrendsConfig represents trend report generation configuration
type TrendsConfig struct {
	LookbackDays int `mapstructure:"lookback_days" validate:"required,gt=0"`
	MaxEntries   int `mapstructure:"max_entries" validate:"required,gt=0"`
}

// IngestionConfig represents data ingestion configuration
type IngestionConfig struct {
	Sources  []DataSourceConfig `mapstructure:"sources" validate:"required,min=1"`
	Schedule ScheduleConfig     `mapstructure:"schedule" validate:"required"`
}

// DataSourceConfig represents a single data source configuration
type DataSourceConfig struct {
	Name      string `mapstructure:"name" validate:"required"`
	Enabled   bool   `mapstructure:"enabled"`
	BatchSize int    `mapstructure:"batch_size" validate:"omitempty,gt=0"`
	APIURL    string `mapstructure:"api_url" validate:"omitempty,url"`
	APIKey    string `mapstructure:"api_key"`
}

// ScheduleConfig represents recurring job scheduling
type ScheduleConfig struct {
	StatSync                   string `mapstructure:"stat_sync" validate:"required"`
	LineSync                   string `mapstructure:"line_sync" validate:"required"`
	Grading                    string `mapstructure:"grading" validate:"required"`
	TrendReport                string `mapstructure:"trend_report" validate:"required"`
	LivePollingIntervalSeconds int    `mapstructure:"live_polling_interval_seconds" validate:"required,gt=0"`
}

// EvaluationConfig represents historical evaluation configuration
type EvaluationConfig struct {
	StartDate            string   `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate              string   `mapstructure:"end_date" validate:"required,datetime=2006-01-02"`
	Markets              []string `mapstructure:"markets" validate:"required,min=1,markets"`
	MinGradedGames       int      `mapstructure:"min_graded_games" validate:"required,gt=0"`
	BootstrapIterations  int      `mapstructure:"bootstrap_iterations" validate:"required,gt=0"`
	ConsistencyWindows   int      `mapstructure:"consistency_windows" validate:"required,gt=0"`
	CalibrationBuckets   int      `mapstructure:"calibration_buckets" validate:"required,gt=0"`
	OutputPath           string   `mapstructure:"output_path" validate:"required"`
	ExportEnabled        bool     `mapstructure:"export_enabled"`
	PersistResults       bool     `mapstructure:"persist_results"`
}

// CacheConfig represents in-memory cache configuration
type CacheConfig struct {
	PredictionTTLSeconds   int `mapstructure:"prediction_ttl_seconds" validate:"required,gt=0"`
	RosterTTLSeconds       int `mapstructure:"roster_ttl_seconds" validate:"required,gt=0"`
	CleanupIntervalSeconds int `mapstructure:"cleanup_interval_seconds" validate:"required,gt=0"`
	MaxEntries             int `mapstructure:"max_entries" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// TracingConfig represents distributed tracing configuration
type TracingConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	DaemonAddress string `mapstructure:"daemon_address"`
	Version       string `mapstructure:"version"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	PredictionsEnabled       bool `mapstructure:"predictions_enabled"`
	TrendReportsEnabled      bool `mapstructure:"trend_reports_enabled"`
	PickSuggestionsEnabled   bool `mapstructure:"pick_suggestions_enabled"`
	AdvancedAnalyticsEnabled bool `mapstructure:"advanced_analytics_enabled"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetStatsFeedURL returns the box-score provider base URL
func (c *Config) GetStatsFeedURL() string {
	return c.StatsFeed.APIURL
}

// GetOddsFeedURL returns the line provider base URL
func (c *Config) GetOddsFeedURL() string {
	return c.OddsFeed.APIURL
}
