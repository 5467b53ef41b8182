package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/edge"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/odds"
)

// fourTeamSeason builds six completed round-robin weeks plus one upcoming week.
// Team strength is fixed (BUF > MIA > NYJ > NE) so margins follow a clean
// linear signal.
func fourTeamSeason() []models.GameRecord {
	strength := map[string]float64{"BUF": 9, "MIA": 5, "NYJ": 3, "NE": 0}
	weeks := [][][2]string{
		{{"BUF", "NYJ"}, {"MIA", "NE"}},
		{{"NYJ", "MIA"}, {"NE", "BUF"}},
		{{"BUF", "MIA"}, {"NYJ", "NE"}},
		{{"NYJ", "BUF"}, {"NE", "MIA"}},
		{{"MIA", "BUF"}, {"NE", "NYJ"}},
		{{"BUF", "NE"}, {"MIA", "NYJ"}},
		{{"BUF", "NYJ"}, {"MIA", "NE"}}, // upcoming
	}

	opening, _ := time.Parse("2006-01-02", "2024-09-08")
	var games []models.GameRecord
	for w, matchups := range weeks {
		week := w + 1
		gameday := opening.AddDate(0, 0, 7*w)
		for _, m := range matchups {
			home, away := m[0], m[1]
			g := models.GameRecord{
				GameID:   fmt.Sprintf("2024_%02d_%s_%s", week, away, home),
				Season:   2024,
				Week:     week,
				Gameday:  &gameday,
				HomeTeam: home,
				AwayTeam: away,
			}
			if week <= 6 {
				hs := 20 + strength[home]
				as := 17 + strength[away]
				g.HomeScore = &hs
				g.AwayScore = &as
			}
			games = append(games, g)
		}
	}
	return games
}

func trainSeason(t *testing.T) *TrainResult {
	t.Helper()
	trainer := NewTrainer(DefaultTrainerConfig(), logrus.New())
	result, err := trainer.Train(fourTeamSeason(), nil)
	require.NoError(t, err)
	return result
}

func TestTrainerFitsBothModels(t *testing.T) {
	result := trainSeason(t)

	assert.Equal(t, 12, result.Elo.TrainedGames())
	assert.Greater(t, result.Elo.Rating("BUF"), result.Elo.Rating("NE"))

	require.NotNil(t, result.Margin)
	assert.Equal(t, DefaultFeatureConfig().Names(), result.Margin.Features)
	// Opening-week rows have league-filled history on both sides, so their
	// differentials are all zero and they drop out of the fit.
	assert.Equal(t, 10, result.Margin.Samples)
	assert.Greater(t, result.Margin.Sigma, 0.0)
	assert.Equal(t, 0, result.SkippedGames)

	// Rollup rows exist for the upcoming week too.
	assert.Len(t, result.Rollups, 28)
}

func TestTrainerNoGames(t *testing.T) {
	trainer := NewTrainer(DefaultTrainerConfig(), nil)
	_, err := trainer.Train(nil, nil)
	assert.Error(t, err)
}

func TestMarginProberScoresUpcomingGame(t *testing.T) {
	result := trainSeason(t)
	prober := &MarginProber{
		Model:    result.Margin,
		Features: DefaultFeatureConfig(),
		Index:    result.Index,
	}

	games := fourTeamSeason()
	upcoming := games[len(games)-2] // BUF hosting NYJ in week 7
	require.False(t, upcoming.Completed())

	p, err := prober.HomeWinProb(&upcoming)
	require.NoError(t, err)
	assert.Greater(t, p, 0.5, "stronger home team should be favored")
	assert.Less(t, p, 1.0)

	// A game absent from the rollup index must error, not silently zero-fill.
	unknown := models.GameRecord{GameID: "2024_09_DAL_PHI", HomeTeam: "PHI", AwayTeam: "DAL"}
	_, err = prober.HomeWinProb(&unknown)
	assert.Error(t, err)
}

func TestSheetBuilderJoinsMarketQuotes(t *testing.T) {
	result := trainSeason(t)
	builder := NewSheetBuilder(
		&EloProber{Model: result.Elo},
		odds.NewNormalizer(nil, nil),
		edge.NewCalculator(0.05, nil),
		0,
		logrus.New(),
	)

	homePrice, awayPrice := -150.0, 130.0
	consensus := map[string]models.ConsensusQuote{
		odds.Matchup("BUF", "NYJ"): {
			GameKey:   "NYJ@BUF",
			HomeTeam:  "BUF",
			AwayTeam:  "NYJ",
			HomePrice: &homePrice,
			AwayPrice: &awayPrice,
		},
	}

	sheet, err := builder.Build(fourTeamSeason(), consensus)
	require.NoError(t, err)
	require.Len(t, sheet, 4, "two upcoming games, two sides each")

	bySide := map[string]models.EdgeResult{}
	for _, row := range sheet {
		bySide[row.GameKey+"/"+string(row.Side)] = row
	}

	quoted := bySide["2024_07_NYJ_BUF/home"]
	require.True(t, quoted.HasMarket())
	assert.InDelta(t, 0.580, *quoted.MarketProb, 0.001)
	require.NotNil(t, quoted.Edge)
	assert.InDelta(t, quoted.ModelProb-*quoted.MarketProb, *quoted.Edge, 1e-12)
	require.NotNil(t, quoted.StakeFraction)
	assert.LessOrEqual(t, *quoted.StakeFraction, 0.05)

	quotedAway := bySide["2024_07_NYJ_BUF/away"]
	assert.InDelta(t, 1.0, quoted.ModelProb+quotedAway.ModelProb, 1e-12)

	// The unquoted game still flows through with nil market fields.
	unquoted := bySide["2024_07_NE_MIA/home"]
	assert.False(t, unquoted.HasMarket())
	assert.Nil(t, unquoted.Edge)
	assert.Nil(t, unquoted.StakeFraction)
	assert.Greater(t, unquoted.ModelProb, 0.0)
}

func TestSheetBuilderClipsProbabilities(t *testing.T) {
	result := trainSeason(t)
	builder := NewSheetBuilder(
		&EloProber{Model: result.Elo},
		odds.NewNormalizer(nil, nil),
		edge.NewCalculator(0.05, nil),
		0.45,
		nil,
	)

	sheet, err := builder.Build(fourTeamSeason(), nil)
	require.NoError(t, err)
	for _, row := range sheet {
		assert.GreaterOrEqual(t, row.ModelProb, 0.45)
		assert.LessOrEqual(t, row.ModelProb, 0.55)
	}
}
