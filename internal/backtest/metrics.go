package backtest

import (
	"encoding/json"
	"math"
)

// Metrics summarizes one walk-forward run: probabilistic forecast quality over
// every scored game, plus betting simulation results where quotes existed.
type Metrics struct {
	Weeks       int     `json:"weeks"`
	GamesScored int     `json:"games_scored"`
	BrierScore  float64 `json:"brier_score"`
	LogLoss     float64 `json:"log_loss"`
	Accuracy    float64 `json:"accuracy"`

	TotalBets    int     `json:"total_bets"`
	WinningBets  int     `json:"winning_bets"`
	LosingBets   int     `json:"losing_bets"`
	WinRate      float64 `json:"win_rate"`
	ProfitFactor float64 `json:"profit_factor"`
	Expectancy   float64 `json:"expectancy"`

	StartBankroll float64 `json:"start_bankroll"`
	FinalBankroll float64 `json:"final_bankroll"`
	TotalReturn   float64 `json:"total_return"`
	MaxDrawdown   float64 `json:"max_drawdown"`
	Volatility    float64 `json:"volatility"`
}

// CalculateMetrics reduces per-week results and the equity curve to summary
// metrics. Forecast metrics are averaged per scored game; betting metrics
// cover only games where a market quote existed.
func CalculateMetrics(weeks []WeekResult, curve EquityCurve, startBankroll float64) Metrics {
	m := Metrics{
		Weeks:         len(weeks),
		StartBankroll: startBankroll,
		FinalBankroll: startBankroll,
	}

	brierSum := 0.0
	logLossSum := 0.0
	correct := 0
	var bets []SimulatedBet
	for _, w := range weeks {
		m.GamesScored += w.Games
		brierSum += w.BrierSum
		logLossSum += w.LogLossSum
		correct += w.Correct
		bets = append(bets, w.Bets...)
	}
	if m.GamesScored > 0 {
		m.BrierScore = brierSum / float64(m.GamesScored)
		m.LogLoss = logLossSum / float64(m.GamesScored)
		m.Accuracy = float64(correct) / float64(m.GamesScored)
	}

	m.TotalBets = len(bets)
	grossProfit := 0.0
	grossLoss := 0.0
	net := 0.0
	for _, bet := range bets {
		net += bet.Profit
		if bet.Profit > 0 {
			m.WinningBets++
			grossProfit += bet.Profit
		} else if bet.Profit < 0 {
			m.LosingBets++
			grossLoss += math.Abs(bet.Profit)
		}
	}
	if m.TotalBets > 0 {
		m.WinRate = float64(m.WinningBets) / float64(m.TotalBets)
		m.Expectancy = net / float64(m.TotalBets)
	}
	if grossLoss > 0 {
		m.ProfitFactor = grossProfit / grossLoss
	} else if grossProfit > 0 {
		// No losing bets; cap instead of Inf so the value stays serializable.
		m.ProfitFactor = 999
	}

	if len(curve) > 0 {
		m.FinalBankroll = curve[len(curve)-1].Value
	}
	if startBankroll > 0 {
		m.TotalReturn = (m.FinalBankroll - startBankroll) / startBankroll
	}
	m.MaxDrawdown = curve.MaxDrawdown()
	m.Volatility = curve.GetVolatility()

	return m
}

// ToJSON exports metrics to JSON
func (m Metrics) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}
