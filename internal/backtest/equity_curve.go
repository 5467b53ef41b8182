package backtest

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// EquityPoint is the simulated bankroll after one evaluated week.
type EquityPoint struct {
	Season   int     `json:"season"`
	Week     int     `json:"week"`
	Value    float64 `json:"value"`
	Drawdown float64 `json:"drawdown"`
	WeekPnL  float64 `json:"week_pnl"`
}

// EquityCurve is the week-indexed series of simulated bankroll values.
type EquityCurve []EquityPoint

// GetReturns calculates weekly returns from the equity curve
func (e EquityCurve) GetReturns() []float64 {
	if len(e) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(e)-1)
	for i := 1; i < len(e); i++ {
		prev := e[i-1].Value
		curr := e[i].Value
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (curr-prev)/prev)
	}
	return returns
}

// GetVolatility calculates standard deviation of weekly returns
func (e EquityCurve) GetVolatility() float64 {
	return stddev(e.GetReturns())
}

// MaxDrawdown calculates the largest peak-to-trough decline
func (e EquityCurve) MaxDrawdown() float64 {
	maxDD := 0.0
	peak := 0.0
	for _, p := range e {
		if p.Value > peak {
			peak = p.Value
		}
		if peak == 0 {
			continue
		}
		drawdown := (peak - p.Value) / peak
		if drawdown > maxDD {
			maxDD = drawdown
		}
	}
	return maxDD
}

// ToCSV exports the equity curve to a CSV string
func (e EquityCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("season,week,value,drawdown,week_pnl\n")
	for _, point := range e {
		buf.WriteString(strconv.Itoa(point.Season))
		buf.WriteString(",")
		buf.WriteString(strconv.Itoa(point.Week))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Value))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Drawdown))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.WeekPnL))
		buf.WriteString("\n")
	}
	return buf.String()
}

// ToJSON exports the equity curve to a JSON string
func (e EquityCurve) ToJSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	return mean / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
