// Package config provides configuration management for the Gridiron Edge application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	DataSource DataSourceConfig `mapstructure:"datasource" validate:"required"`
	Model      ModelConfig      `mapstructure:"model" validate:"required"`
	Staking    StakingConfig    `mapstructure:"staking" validate:"required"`
	Ingestion  IngestionConfig  `mapstructure:"ingestion" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
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

// DataSourceConfig represents the external schedule and odds feed configuration
type DataSourceConfig struct {
	ScheduleURL       string   `mapstructure:"schedule_url" validate:"required,url"`
	OddsAPIURL        string   `mapstructure:"odds_api_url" validate:"required,url"`
	OddsAPIKey        string   `mapstructure:"odds_api_key"`
	PreferredBooks    []string `mapstructure:"preferred_books"`
	RequestsPerSecond float64  `mapstructure:"requests_per_second" validate:"required,gt=0"`
	RetryAttempts     int      `mapstructure:"retry_attempts" validate:"gte=0"`
	TimeoutSeconds    int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	CacheTTLSeconds   int      `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// ModelConfig represents forecasting model parameters
type ModelConfig struct {
	EloKFactor        float64 `mapstructure:"elo_k_factor" validate:"required,gt=0"`
	EloHomeAdvantage  float64 `mapstructure:"elo_home_advantage" validate:"gte=0"`
	EloInitialRating  float64 `mapstructure:"elo_initial_rating" validate:"required,gt=0"`
	RidgeAlpha        float64 `mapstructure:"ridge_alpha" validate:"gte=0"`
	RollingWindow     int     `mapstructure:"rolling_window" validate:"required,gt=0"`
	FallbackSigma     float64 `mapstructure:"fallback_sigma" validate:"required,gt=0"`
	MinProbClip       float64 `mapstructure:"min_prob_clip" validate:"gte=0,lt=0.5"`
	IncludeRestTravel bool    `mapstructure:"include_rest_travel"`
}

// StakingConfig represents staking policy configuration
type StakingConfig struct {
	KellyCap float64 `mapstructure:"kelly_cap" validate:"required,gt=0,lte=1"`
	Bankroll float64 `mapstructure:"bankroll" validate:"required,gt=0"`
}

// IngestionConfig represents data ingestion configuration
type IngestionConfig struct {
	// Schedule is a cron expression for the weekly refresh.
	Schedule    string `mapstructure:"schedule" validate:"required"`
	FirstSeason int    `mapstructure:"first_season" validate:"required,gt=1990"`
	RunOnStart  bool   `mapstructure:"run_on_start"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
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
