package smc

import (
	"testing"

	"SMCAlert/internal/domain/models"
)

// zigzag builds humps peaking every 5th bar, each peak and trough stepped by
// delta so swing structure trends in one direction.
func zigzag(humps int, base, delta float64) []models.Candle {
	var candles []models.Candle
	i := 0
	for h := 0; h < humps; h++ {
		lvl := base + float64(h)*delta
		for _, off := range []float64{0, 1, 2.5, 1, 0} {
			candles = append(candles, bar(i, lvl+off-0.1, lvl+off+0.2, lvl+off-0.2, lvl+off))
			i++
		}
	}
	return candles
}

func TestDetectTrendUp(t *testing.T) {
	trend := DetectTrend(zigzag(4, 100, 3))
	if trend.Direction != models.TrendUp {
		t.Fatalf("direction = %s, want uptrend", trend.Direction)
	}
	if trend.Strength == nil || trend.Structure == nil {
		t.Fatalf("expected structured trend detail, got %+v", trend)
	}
	if *trend.Strength != 100 {
		t.Errorf("strength = %v, want 100", *trend.Strength)
	}
	st := trend.Structure
	if st.HigherHighs == 0 || st.HigherLows == 0 || st.LowerHighs != 0 || st.LowerLows != 0 {
		t.Errorf("unexpected structure %+v", st)
	}
}

func TestDetectTrendDown(t *testing.T) {
	trend := DetectTrend(zigzag(4, 100, -3))
	if trend.Direction != models.TrendDown {
		t.Fatalf("direction = %s, want downtrend", trend.Direction)
	}
}

func TestDetectTrendFallback(t *testing.T) {
	// a monotonic ramp has no fractal pivots
	var candles []models.Candle
	for i := 0; i < 10; i++ {
		p := 100 + float64(i)
		candles = append(candles, bar(i, p-0.2, p+0.3, p-0.3, p))
	}
	trend := DetectTrend(candles)
	if trend.Direction != models.TrendUp {
		t.Fatalf("direction = %s, want uptrend", trend.Direction)
	}
	if trend.Strength != nil || trend.Structure != nil {
		t.Errorf("fallback trend must carry no detail, got %+v", trend)
	}
}

func TestTrendAligned(t *testing.T) {
	up := models.TrendInfo{Direction: models.TrendUp}
	if !up.Aligned(models.Bullish) || up.Aligned(models.Bearish) {
		t.Errorf("uptrend alignment wrong")
	}
	flat := models.TrendInfo{Direction: models.TrendNeutral}
	if flat.Aligned(models.Bullish) || flat.Aligned(models.Bearish) {
		t.Errorf("neutral trend aligns with nothing")
	}
}

func TestDetectLiquidityEqualHighs(t *testing.T) {
	// two humps peaking at the same level within tolerance
	candles := zigzag(2, 100, 0)
	candles = append(candles, zigzag(1, 100.1, 0)...)
	zones := DetectLiquidity(candles)

	foundHighs := false
	for _, z := range zones {
		if z.Side == "highs" && z.Touches >= 2 {
			foundHighs = true
		}
	}
	if !foundHighs {
		t.Fatalf("expected an equal-highs zone, got %+v", zones)
	}
}
