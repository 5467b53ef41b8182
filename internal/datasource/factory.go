package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/teams"
)

// Factory creates data sources from configuration.
type Factory struct {
	logger *logrus.Logger
	cfg    config.DataSourceConfig
}

// NewFactory creates a new data source factory
func NewFactory(cfg config.DataSourceConfig, logger *logrus.Logger) *Factory {
	if logger == nil {
		logger = logrus.New()
	}
	return &Factory{logger: logger, cfg: cfg}
}

// NewHTTPClient builds the shared rate-limited client from configuration.
func (f *Factory) NewHTTPClient() *RateLimitedHTTPClient {
	httpCfg := DefaultHTTPClientConfig()
	if f.cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(f.cfg.TimeoutSeconds) * time.Second
	}
	if f.cfg.RetryAttempts > 0 {
		httpCfg.MaxRetries = f.cfg.RetryAttempts
	}
	if f.cfg.RequestsPerSecond > 0 {
		httpCfg.RateLimit = f.cfg.RequestsPerSecond
	}
	return NewRateLimitedHTTPClient(httpCfg, f.logger)
}

// NewScheduleSource creates the schedule feed client.
func (f *Factory) NewScheduleSource(httpClient *RateLimitedHTTPClient, resolver *teams.Resolver) (ScheduleSource, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}
	if f.cfg.ScheduleURL == "" {
		return nil, fmt.Errorf("schedule URL is required")
	}
	return NewScheduleClient(httpClient, f.cfg.ScheduleURL, resolver, true, f.logger), nil
}

// NewOddsSource creates the odds API client.
func (f *Factory) NewOddsSource(httpClient *RateLimitedHTTPClient) (OddsSource, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}
	if f.cfg.OddsAPIURL == "" {
		return nil, fmt.Errorf("odds API URL is required")
	}
	if f.cfg.OddsAPIKey == "" {
		return nil, fmt.Errorf("odds API key is required")
	}
	ttl := time.Duration(f.cfg.CacheTTLSeconds) * time.Second
	return NewOddsClient(httpClient, f.cfg.OddsAPIURL, f.cfg.OddsAPIKey, ttl, true, f.logger), nil
}
