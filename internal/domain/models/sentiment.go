package models

import "time"

type SentimentAction string

const (
	ActionBuy   SentimentAction = "buy"
	ActionHold  SentimentAction = "hold"
	ActionAvoid SentimentAction = "avoid"
)

// SentimentInputs are the pre-computed macro sub-scores (each 0-100, higher is
// more favorable) plus the raw readings the narrative is conditioned on.
type SentimentInputs struct {
	FearGreedScore  float64
	VIXScore        float64
	BreadthScore    float64
	SectorScore     float64
	MAScore         float64
	YieldCurveScore float64

	FearGreedValue float64 // raw index 0-100
	VIXValue       float64 // raw VIX level
	BreadthPct     float64 // % of index members above their 50d MA
}

// SentimentScore is the blended market-wide read.
type SentimentScore struct {
	Value          int // 0-100
	Bucket         string
	Recommendation SentimentAction
	Narrative      []string
	Timestamp      time.Time
}
