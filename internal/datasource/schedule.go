package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/teams"
)

const scheduleSourceName = "schedule"

// ScheduleClient implements ScheduleSource against a season-schedule feed.
// Team codes are canonicalized at this boundary; games with unresolvable codes
// are dropped and counted, never fatal for the batch.
type ScheduleClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	resolver   *teams.Resolver
	enabled    bool
	logger     *logrus.Logger
}

// scheduleGame is the feed's wire format for one game.
type scheduleGame struct {
	GameID    string   `json:"game_id"`
	Season    int      `json:"season"`
	Week      int      `json:"week"`
	Gameday   string   `json:"gameday"`
	HomeTeam  string   `json:"home_team"`
	AwayTeam  string   `json:"away_team"`
	HomeScore *float64 `json:"home_score"`
	AwayScore *float64 `json:"away_score"`
}

// NewScheduleClient creates a new schedule feed client.
func NewScheduleClient(httpClient *RateLimitedHTTPClient, baseURL string, resolver *teams.Resolver, enabled bool, logger *logrus.Logger) *ScheduleClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &ScheduleClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		resolver:   resolver,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchSeason retrieves every game of one season.
func (c *ScheduleClient) FetchSeason(ctx context.Context, season int) ([]models.GameRecord, error) {
	if !c.enabled {
		return nil, NewDataSourceError(scheduleSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	url := fmt.Sprintf("%s?season=%d", c.baseURL, season)
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, NewDataSourceError(scheduleSourceName, ErrCodeNetworkError, "failed to fetch schedule", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewDataSourceError(scheduleSourceName, ErrCodeNotFound, fmt.Sprintf("no schedule for season %d", season), nil)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError(scheduleSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var wire []scheduleGame
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, NewDataSourceError(scheduleSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	games := make([]models.GameRecord, 0, len(wire))
	for i := range wire {
		game, ok := c.convertGame(&wire[i])
		if !ok {
			continue
		}
		games = append(games, *game)
	}
	return games, nil
}

// Name returns the data source name
func (c *ScheduleClient) Name() string {
	return scheduleSourceName
}

// IsEnabled returns whether this data source is enabled
func (c *ScheduleClient) IsEnabled() bool {
	return c.enabled
}

// convertGame converts the wire format to a GameRecord with canonical codes.
func (c *ScheduleClient) convertGame(w *scheduleGame) (*models.GameRecord, bool) {
	home, away, ok := c.resolver.ResolvePair(w.HomeTeam, w.AwayTeam)
	if !ok {
		return nil, false
	}
	if w.Season == 0 || w.Week == 0 {
		c.logger.WithField("game_id", w.GameID).Warn("Schedule row missing season or week, dropping")
		return nil, false
	}

	now := time.Now().UTC()
	game := &models.GameRecord{
		ID:        uuid.New(),
		GameID:    w.GameID,
		Season:    w.Season,
		Week:      w.Week,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: w.HomeScore,
		AwayScore: w.AwayScore,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if w.Gameday != "" {
		if day, err := time.Parse("2006-01-02", w.Gameday); err == nil {
			game.Gameday = &day
		} else {
			c.logger.WithFields(logrus.Fields{
				"game_id": w.GameID,
				"gameday": w.Gameday,
			}).Warn("Unparseable gameday, keeping game without date")
		}
	}
	return game, true
}
