package smc

import (
	"math"
	"testing"
)

func TestRSIExtremes(t *testing.T) {
	up := flatCandles(20, 100)
	for i := range up {
		up[i].Close = 100 + float64(i)
	}
	if got := rsi(up, rsiPeriod); got != 100 {
		t.Errorf("all-gains rsi = %v, want 100", got)
	}
	if got := rsi(up[:5], rsiPeriod); got != 50 {
		t.Errorf("short-window rsi = %v, want neutral 50", got)
	}
}

func TestATRFlatRange(t *testing.T) {
	candles := flatCandles(20, 100)
	// every bar spans exactly 1.0 high-low with no close gaps
	if got := atr(candles, atrPeriod); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("atr = %v, want 1.0", got)
	}
}

func TestSMAWindow(t *testing.T) {
	candles := flatCandles(20, 100)
	for i := range candles {
		candles[i].Close = float64(i + 1)
	}
	// mean of the last 5 closes 16..20
	if got := sma(candles, 5); got != 18 {
		t.Errorf("sma = %v, want 18", got)
	}
	if got := sma(candles, 50); got != 10.5 {
		t.Errorf("degraded sma = %v, want 10.5", got)
	}
}
