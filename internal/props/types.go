package props

import "time"

// RawGameStat is one athlete's recorded performance in one completed game.
// StatFields is an open mapping from source-dependent field names to numeric
// values; no key is guaranteed present across an athlete's history.
type RawGameStat struct {
	AthleteID  string             `json:"athlete_id"`
	GameID     string             `json:"game_id"`
	GameDate   string             `json:"game_date"`
	Team       string             `json:"team"`
	Opponent   string             `json:"opponent"`
	IsHome     *bool              `json:"is_home"`
	StatFields map[string]float64 `json:"stat_fields"`
}

// RecentGame is one per-game value retained on a summary for transparency
type RecentGame struct {
	Date     string  `json:"date"`
	Opponent string  `json:"opponent"`
	IsHome   *bool   `json:"is_home"`
	Value    float64 `json:"value"`
}

// HistoricalSummary is the aggregator's output for one athlete/market query.
// Every average covers only the records that contributed a value to that
// slice; an empty slice yields average 0 and sample size 0.
type HistoricalSummary struct {
	MarketKey            string       `json:"market_key"`
	SampleSize           int          `json:"sample_size"`
	SeasonAverage        float64      `json:"season_average"`
	SeasonTotal          float64      `json:"season_total"`
	RecentFormAverage    float64      `json:"recent_form_average"`
	RecentFormSampleSize int          `json:"recent_form_sample_size"`
	HomeAverage          float64      `json:"home_average"`
	HomeSampleSize       int          `json:"home_sample_size"`
	AwayAverage          float64      `json:"away_average"`
	AwaySampleSize       int          `json:"away_sample_size"`
	HomeMinusAway        float64      `json:"home_minus_away"`
	OpponentAverage      float64      `json:"opponent_average"`
	OpponentSampleSize   int          `json:"opponent_sample_size"`
	Dispersion           float64      `json:"dispersion"`
	RecentGames          []RecentGame `json:"recent_games"`
}

// GameContext carries what is known about the upcoming game at prediction time
type GameContext struct {
	IsHome              *bool `json:"is_home"`
	OpponentGamesPlayed *int  `json:"opponent_games_played"`
}

// Prediction is the blended result for one summary/line/context combination
type Prediction struct {
	PredictedValue      float64  `json:"predicted_value"`
	Confidence          float64  `json:"confidence"`
	OverProbability     float64  `json:"over_probability"`
	UnderProbability    float64  `json:"under_probability"`
	ContributingFactors []string `json:"contributing_factors"`
}

// GradedOutcome is one settled over/under result fed to the trend detector
type GradedOutcome struct {
	AthleteName string  `json:"athlete_name"`
	Team        string  `json:"team"`
	MarketKey   string  `json:"market_key"`
	Line        float64 `json:"line"`
	Result      string  `json:"result"`
	Sportsbook  string  `json:"sportsbook"`
	GameDate    string  `json:"game_date"`
}

// TrendEntry is one athlete/market group's current streak
type TrendEntry struct {
	AthleteName          string    `json:"athlete_name"`
	Team                 string    `json:"team"`
	MarketKey            string    `json:"market_key"`
	StreakDirection      string    `json:"streak_direction"`
	StreakLength         int       `json:"streak_length"`
	Confidence           int       `json:"confidence"`
	LastLine             float64   `json:"last_line"`
	Sportsbook           string    `json:"sportsbook"`
	LastGameDate         time.Time `json:"last_game_date"`
	TotalGamesConsidered int       `json:"total_games_considered"`
}
