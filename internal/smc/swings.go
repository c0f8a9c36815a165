package smc

import (
	"math"

	"SMCAlert/internal/domain/models"
)

const (
	swingWindow        = 2 // bars on each side of a fractal pivot
	maxLiquidityZones  = 5
	liquidityTolerance = 0.005 // equal highs/lows within 0.5%
)

type swingPoint struct {
	index int
	price float64
}

// swingHighs returns fractal pivots: bars whose high exceeds the highs of the
// surrounding window on both sides.
func swingHighs(candles []models.Candle) []swingPoint {
	var out []swingPoint
	for i := swingWindow; i < len(candles)-swingWindow; i++ {
		pivot := true
		for j := i - swingWindow; j <= i+swingWindow; j++ {
			if j != i && candles[j].High >= candles[i].High {
				pivot = false
				break
			}
		}
		if pivot {
			out = append(out, swingPoint{index: i, price: candles[i].High})
		}
	}
	return out
}

func swingLows(candles []models.Candle) []swingPoint {
	var out []swingPoint
	for i := swingWindow; i < len(candles)-swingWindow; i++ {
		pivot := true
		for j := i - swingWindow; j <= i+swingWindow; j++ {
			if j != i && candles[j].Low <= candles[i].Low {
				pivot = false
				break
			}
		}
		if pivot {
			out = append(out, swingPoint{index: i, price: candles[i].Low})
		}
	}
	return out
}

// DetectTrend derives the prevailing trend from swing structure: consecutive
// higher highs and higher lows vote for an uptrend, lower highs and lower lows
// for a downtrend. With fewer than two swings per side the direction falls
// back to a close-over-close read and carries no strength or structure detail.
func DetectTrend(candles []models.Candle) models.TrendInfo {
	highs := swingHighs(candles)
	lows := swingLows(candles)

	if len(highs) < 2 || len(lows) < 2 {
		return fallbackTrend(candles)
	}

	var st models.TrendStructure
	for i := 1; i < len(highs); i++ {
		if highs[i].price > highs[i-1].price {
			st.HigherHighs++
		} else {
			st.LowerHighs++
		}
	}
	for i := 1; i < len(lows); i++ {
		if lows[i].price > lows[i-1].price {
			st.HigherLows++
		} else {
			st.LowerLows++
		}
	}

	up := st.HigherHighs + st.HigherLows
	down := st.LowerHighs + st.LowerLows
	total := up + down

	dir := models.TrendNeutral
	dominant := 0
	if up > down {
		dir = models.TrendUp
		dominant = up
	} else if down > up {
		dir = models.TrendDown
		dominant = down
	}

	strength := 0.0
	if total > 0 {
		strength = math.Round(float64(dominant) / float64(total) * 100)
	}
	return models.TrendInfo{Direction: dir, Strength: &strength, Structure: &st}
}

func fallbackTrend(candles []models.Candle) models.TrendInfo {
	if len(candles) < 2 {
		return models.TrendInfo{Direction: models.TrendNeutral}
	}
	first := candles[0].Close
	last := candles[len(candles)-1].Close
	switch {
	case last > first:
		return models.TrendInfo{Direction: models.TrendUp}
	case last < first:
		return models.TrendInfo{Direction: models.TrendDown}
	default:
		return models.TrendInfo{Direction: models.TrendNeutral}
	}
}

// DetectLiquidity clusters swing highs and swing lows that sit within a 0.5%
// band of each other. Two or more touches make a zone; stops tend to pool
// behind such levels.
func DetectLiquidity(candles []models.Candle) []models.LiquidityZone {
	zones := clusterSwings(swingHighs(candles), "highs")
	zones = append(zones, clusterSwings(swingLows(candles), "lows")...)
	return keepNewest(zones, maxLiquidityZones)
}

func clusterSwings(points []swingPoint, side string) []models.LiquidityZone {
	var zones []models.LiquidityZone
	used := make([]bool, len(points))
	for i := range points {
		if used[i] {
			continue
		}
		level := points[i].price
		touches := 1
		sum := level
		for j := i + 1; j < len(points); j++ {
			if used[j] || level == 0 {
				continue
			}
			if math.Abs(points[j].price-level)/level <= liquidityTolerance {
				used[j] = true
				touches++
				sum += points[j].price
			}
		}
		if touches >= 2 {
			zones = append(zones, models.LiquidityZone{
				Side:    side,
				Level:   sum / float64(touches),
				Touches: touches,
			})
		}
	}
	return zones
}
