package models

import "time"

// Analysis is the full structure output for one symbol at one point in time.
// Note: no transport (json/http) concerns here.
type Analysis struct {
	Symbol          string
	Timeframe       string
	Timestamp       time.Time
	Price           float64
	OrderBlocks     []OrderBlock
	StructureBreaks []StructureBreakEvent
	FairValueGaps   []FairValueGap
	Zone            Zone
	CurrentZone     ZoneName
	Trend           TrendInfo
	Liquidity       []LiquidityZone
	Indicators      Indicators
	Alerts          []Alert
	Consensus       ConsensusResult
}

// WatchlistSummary is the market-bias rollup over a batch of analyses.
type WatchlistSummary struct {
	Timestamp time.Time
	Analyzed  int
	Buys      int
	Sells     int
	Mixed     int
	Holds     int
	Bias      Verdict
	Errors    map[string]string
}
