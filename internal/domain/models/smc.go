package models

import "time"

type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
)

// OrderBlock is a price range where a sharp reversal candle was followed by a
// strong continuation move. Top >= Bottom always holds.
type OrderBlock struct {
	Direction       Direction
	Top             float64
	Bottom          float64
	OriginTimestamp time.Time
	OriginVolume    float64
	Strength        float64 // 0-100, from the continuation move size
	QualityScore    int     // 0-100
	VolumeConfirmed bool
	TrendAligned    bool
	Tested          bool // price re-entered the range later in the window
}

// StrengthLabel buckets the raw strength for display.
func (b OrderBlock) StrengthLabel() string {
	switch {
	case b.QualityScore >= 70:
		return "strong"
	case b.QualityScore >= 40:
		return "medium"
	default:
		return "weak"
	}
}

type BreakKind string

const (
	BreakBOS   BreakKind = "BOS"   // continuation of the prevailing bias
	BreakCHoCH BreakKind = "CHoCH" // first break against the prevailing bias
)

type StructureBreakEvent struct {
	Kind      BreakKind
	Direction Direction
	Level     float64
	Timestamp time.Time
}

type FairValueGap struct {
	Direction Direction
	Top       float64
	Bottom    float64
	Timestamp time.Time
	Filled    bool
}

// Zone partitions the window range into premium/discount thirds around the
// equilibrium midpoint.
type Zone struct {
	PremiumLow  float64 // premium band is [PremiumLow, RangeHigh]
	DiscountTop float64 // discount band is [RangeLow, DiscountTop]
	Equilibrium float64
	RangeHigh   float64
	RangeLow    float64
	Fibonacci   map[string]float64 // retracement levels keyed "23.6".."78.6"
}

type ZoneName string

const (
	ZonePremium     ZoneName = "premium"
	ZoneDiscount    ZoneName = "discount"
	ZoneEquilibrium ZoneName = "equilibrium"
)

// Classify places a price into one of the three bands.
func (z Zone) Classify(price float64) ZoneName {
	switch {
	case price >= z.PremiumLow:
		return ZonePremium
	case price <= z.DiscountTop:
		return ZoneDiscount
	default:
		return ZoneEquilibrium
	}
}

type TrendDirection string

const (
	TrendUp      TrendDirection = "uptrend"
	TrendDown    TrendDirection = "downtrend"
	TrendNeutral TrendDirection = "neutral"
)

// TrendStructure carries the optional swing-structure detail behind a trend
// call. Present only when enough swing points exist to count.
type TrendStructure struct {
	HigherHighs int
	HigherLows  int
	LowerHighs  int
	LowerLows   int
}

// TrendInfo is the prevailing trend as a tagged variant: Direction is always
// set, Strength and Structure only when derivable from swing points.
type TrendInfo struct {
	Direction TrendDirection
	Strength  *float64 // 0-100
	Structure *TrendStructure
}

// Aligned reports whether a block direction matches the trend.
func (t TrendInfo) Aligned(d Direction) bool {
	return (d == Bullish && t.Direction == TrendUp) ||
		(d == Bearish && t.Direction == TrendDown)
}

// LiquidityZone is a cluster of equal highs or equal lows where resting
// stop orders tend to pool.
type LiquidityZone struct {
	Side    string // "highs" or "lows"
	Level   float64
	Touches int
}

// Indicators is a display snapshot of conventional oscillators over the window.
type Indicators struct {
	RSI  float64
	ATR  float64
	MA20 float64
	MA50 float64
}
