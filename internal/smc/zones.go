package smc

import (
	"SMCAlert/internal/domain/models"
)

// fibLevels are the standard retracement ratios, keyed by display label.
var fibLevels = map[string]float64{
	"23.6": 0.236,
	"38.2": 0.382,
	"50.0": 0.5,
	"61.8": 0.618,
	"78.6": 0.786,
}

// ClassifyZone partitions the window's high/low range into thirds: premium is
// the upper third, discount the lower third, with the equilibrium midpoint in
// between. Retracement levels are measured down from the window high.
func ClassifyZone(candles []models.Candle) models.Zone {
	if len(candles) == 0 {
		return models.Zone{}
	}
	high := candles[0].High
	low := candles[0].Low
	for _, c := range candles[1:] {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	span := high - low

	fib := make(map[string]float64, len(fibLevels))
	for label, ratio := range fibLevels {
		fib[label] = high - span*ratio
	}

	return models.Zone{
		RangeHigh:   high,
		RangeLow:    low,
		Equilibrium: low + span/2,
		PremiumLow:  high - span/3,
		DiscountTop: low + span/3,
		Fibonacci:   fib,
	}
}
