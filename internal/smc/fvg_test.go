package smc

import (
	"testing"

	"SMCAlert/internal/domain/models"
)

func TestDetectFVGBullish(t *testing.T) {
	candles := []models.Candle{
		bar(0, 99, 100, 98, 99.5),
		bar(1, 100, 106, 99.8, 105.5),
		bar(2, 105.5, 107, 105, 106), // low 105 clears bar 0's high 100
	}
	gaps := DetectFairValueGaps(candles)
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	g := gaps[0]
	if g.Direction != models.Bullish {
		t.Errorf("expected bullish, got %s", g.Direction)
	}
	if g.Top != 105 || g.Bottom != 100 {
		t.Errorf("gap = [%v, %v], want [100, 105]", g.Bottom, g.Top)
	}
	if g.Filled {
		t.Errorf("gap marked filled with no later bar covering it")
	}
}

func TestDetectFVGBearish(t *testing.T) {
	candles := []models.Candle{
		bar(0, 101, 102, 100, 100.5),
		bar(1, 100, 100.2, 94, 94.5),
		bar(2, 94.5, 95, 93, 94), // high 95 stays under bar 0's low 100
	}
	gaps := DetectFairValueGaps(candles)
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	g := gaps[0]
	if g.Direction != models.Bearish {
		t.Errorf("expected bearish, got %s", g.Direction)
	}
	if g.Top != 100 || g.Bottom != 95 {
		t.Errorf("gap = [%v, %v], want [95, 100]", g.Bottom, g.Top)
	}
}

func TestFVGFillScan(t *testing.T) {
	candles := []models.Candle{
		bar(0, 99, 100, 98, 99.5),
		bar(1, 100, 106, 99.8, 105.5),
		bar(2, 105.5, 107, 105, 106),
		bar(3, 106, 106.5, 99.5, 100), // trades back through [100, 105]
	}
	gaps := DetectFairValueGaps(candles)
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	if !gaps[0].Filled {
		t.Errorf("expected gap filled by the retrace bar")
	}

	// a partial retrace does not fill
	candles[3] = bar(3, 106, 106.5, 103, 104)
	gaps = DetectFairValueGaps(candles)
	if len(gaps) != 1 || gaps[0].Filled {
		t.Fatalf("partial retrace must not fill, got %+v", gaps)
	}
}

func TestDetectFVGRetention(t *testing.T) {
	var candles []models.Candle
	// staircase where every third bar gaps above the bar two back
	base := 100.0
	for i := 0; i < 24; i++ {
		lo := base + float64(i)*3
		candles = append(candles, bar(i, lo+0.1, lo+2, lo, lo+1.9))
	}
	gaps := DetectFairValueGaps(candles)
	if len(gaps) != maxFairValueGaps {
		t.Fatalf("expected %d gaps, got %d", maxFairValueGaps, len(gaps))
	}
	for i := 1; i < len(gaps); i++ {
		if gaps[i].Timestamp.Before(gaps[i-1].Timestamp) {
			t.Errorf("gaps out of chronological order at %d", i)
		}
	}
}
