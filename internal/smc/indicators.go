package smc

import (
	"math"

	"SMCAlert/internal/domain/models"
)

const (
	rsiPeriod = 14
	atrPeriod = 14
)

// ComputeIndicators returns the conventional oscillator snapshot for display
// alongside the structure annotations. Periods longer than the window degrade
// to what the window can support.
func ComputeIndicators(candles []models.Candle) models.Indicators {
	return models.Indicators{
		RSI:  rsi(candles, rsiPeriod),
		ATR:  atr(candles, atrPeriod),
		MA20: sma(candles, 20),
		MA50: sma(candles, 50),
	}
}

// rsi is Wilder's relative strength index over closing prices.
func rsi(candles []models.Candle, period int) float64 {
	if len(candles) < period+1 {
		return 50
	}
	gains := 0.0
	losses := 0.0
	start := len(candles) - period
	for i := start; i < len(candles); i++ {
		d := candles[i].Close - candles[i-1].Close
		if d > 0 {
			gains += d
		} else {
			losses -= d
		}
	}
	if losses == 0 {
		return 100
	}
	rs := gains / losses
	return 100 - 100/(1+rs)
}

// atr averages the true range over the trailing period.
func atr(candles []models.Candle, period int) float64 {
	if len(candles) < 2 {
		return 0
	}
	if period > len(candles)-1 {
		period = len(candles) - 1
	}
	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		tr := candles[i].High - candles[i].Low
		tr = math.Max(tr, math.Abs(candles[i].High-candles[i-1].Close))
		tr = math.Max(tr, math.Abs(candles[i].Low-candles[i-1].Close))
		sum += tr
	}
	return sum / float64(period)
}

func sma(candles []models.Candle, period int) float64 {
	if period <= 0 || len(candles) == 0 {
		return 0
	}
	if period > len(candles) {
		period = len(candles)
	}
	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Close
	}
	return sum / float64(period)
}
