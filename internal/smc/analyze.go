package smc

import (
	"errors"
	"fmt"

	"SMCAlert/internal/domain/models"
)

// ErrInsufficientData is returned when the candle window is too short to
// analyze. No partial output accompanies it.
var ErrInsufficientData = errors.New("insufficient candle data")

type Config struct {
	NearBandPct float64 // proximity band for near alerts, default 2%
}

// Analyzer runs the full structure pipeline over one candle window. It holds
// no per-symbol state; analyses for different symbols can run concurrently.
type Analyzer struct {
	cfg Config
}

func NewAnalyzer(cfg Config) *Analyzer {
	if cfg.NearBandPct <= 0 {
		cfg.NearBandPct = DefaultNearBandPct
	}
	return &Analyzer{cfg: cfg}
}

// Analyze turns a candle window plus the latest price into the full annotation
// set, the ranked alert list, and the consensus verdict. Candles must be
// ascending by time with at least MinWindow entries; lastPrice <= 0 falls back
// to the final close. The only failure mode is the window length check, every
// detector below it is total.
func (a *Analyzer) Analyze(symbol, timeframe string, candles []models.Candle, lastPrice float64) (*models.Analysis, error) {
	if len(candles) < MinWindow {
		return nil, fmt.Errorf("%w: have %d candles, need %d", ErrInsufficientData, len(candles), MinWindow)
	}

	last := candles[len(candles)-1]
	price := lastPrice
	if price <= 0 {
		price = last.Close
	}

	trend := DetectTrend(candles)
	blocks := DetectOrderBlocks(candles)
	ScoreBlocks(blocks, candles, trend)
	breaks := DetectStructureBreaks(candles)
	gaps := DetectFairValueGaps(candles)
	zone := ClassifyZone(candles)

	alerts := GenerateAlerts(price, blocks, breaks, gaps, zone, last.Bucket, a.cfg.NearBandPct)

	return &models.Analysis{
		Symbol:          symbol,
		Timeframe:       timeframe,
		Timestamp:       last.Bucket,
		Price:           price,
		OrderBlocks:     blocks,
		StructureBreaks: breaks,
		FairValueGaps:   gaps,
		Zone:            zone,
		CurrentZone:     zone.Classify(price),
		Trend:           trend,
		Liquidity:       DetectLiquidity(candles),
		Indicators:      ComputeIndicators(candles),
		Alerts:          alerts,
		Consensus:       Aggregate(alerts),
	}, nil
}
