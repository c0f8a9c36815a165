package models

import "time"

type AlertKind string

const (
	AlertEntry AlertKind = "entry" // price inside an order block
	AlertCHoCH AlertKind = "choch"
	AlertNear  AlertKind = "near" // price within the near band of a block
	AlertBOS   AlertKind = "bos"
	AlertFVG   AlertKind = "fvg"
	AlertZone  AlertKind = "zone"
)

type AlertDirection string

const (
	AlertBuy  AlertDirection = "buy"
	AlertSell AlertDirection = "sell"
)

// AlertSource names the annotation type an alert was derived from.
type AlertSource string

const (
	SourceOrderBlock     AlertSource = "order_block"
	SourceStructureBreak AlertSource = "structure_break"
	SourceFVG            AlertSource = "fvg"
	SourceZone           AlertSource = "zone"
)

// Alert is one directional signal derived from a structure annotation.
// QualityScore and the two confirmation booleans come from the source order
// block; sources without a quality notion carry the neutral defaults.
// Source and SourceIndex point back at the producing annotation in the
// Analysis slices (OrderBlocks, Breaks, Gaps); zone alerts index the single
// Zone.
type Alert struct {
	Kind            AlertKind
	Direction       AlertDirection
	Priority        int // 1 = highest urgency
	Source          AlertSource
	SourceIndex     int
	DistancePct     *float64
	QualityScore    int
	VolumeConfirmed bool
	TrendAligned    bool
	SourceTimestamp time.Time
	Message         string
}

type Verdict string

const (
	VerdictBuy   Verdict = "buy"
	VerdictSell  Verdict = "sell"
	VerdictMixed Verdict = "mixed"
	VerdictHold  Verdict = "hold"
)

// ConsensusResult is the single directional call collapsed from a symbol's
// alert list.
type ConsensusResult struct {
	Verdict         Verdict
	Confidence      int // 0-100
	BuySignalCount  int
	SellSignalCount int
	BuyScore        float64
	SellScore       float64
}
