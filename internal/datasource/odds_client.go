package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/odds"
)

const (
	oddsSourceName    = "odds_api"
	oddsEventsCacheKey = "odds_events"
)

// OddsClient implements OddsSource against an odds aggregation API. Responses
// are cached for the configured TTL because the API quota is metered per
// request, and the board does not move meaningfully within a few minutes.
type OddsClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	cache      *cache.Cache
	enabled    bool
	logger     *logrus.Logger
}

// NewOddsClient creates a new odds API client.
func NewOddsClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, cacheTTL time.Duration, enabled bool, logger *logrus.Logger) *OddsClient {
	if logger == nil {
		logger = logrus.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &OddsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		cache:      cache.New(cacheTTL, 2*cacheTTL),
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchEvents retrieves the current odds board, one event per upcoming game.
func (c *OddsClient) FetchEvents(ctx context.Context) ([]odds.Event, error) {
	if !c.enabled {
		return nil, NewDataSourceError(oddsSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	if cached, ok := c.cache.Get(oddsEventsCacheKey); ok {
		c.logger.Debug("Serving odds events from cache")
		return cached.([]odds.Event), nil
	}

	url := fmt.Sprintf(
		"%s/sports/americanfootball_nfl/odds?apiKey=%s&regions=us&markets=h2h,spreads&oddsFormat=american",
		c.baseURL, c.apiKey,
	)
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, NewDataSourceError(oddsSourceName, ErrCodeNetworkError, "failed to fetch odds", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, NewDataSourceError(oddsSourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError(oddsSourceName, ErrCodeRateLimitExceeded, "quota exhausted", nil)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError(oddsSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var events []odds.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, NewDataSourceError(oddsSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	c.cache.Set(oddsEventsCacheKey, events, cache.DefaultExpiration)
	return events, nil
}

// Name returns the data source name
func (c *OddsClient) Name() string {
	return oddsSourceName
}

// IsEnabled returns whether this data source is enabled
func (c *OddsClient) IsEnabled() bool {
	return c.enabled
}
