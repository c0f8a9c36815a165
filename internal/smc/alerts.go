package smc

import (
	"fmt"
	"math"
	"sort"
	"time"

	"SMCAlert/internal/domain/models"
)

// DefaultNearBandPct is the default proximity band for near alerts.
const DefaultNearBandPct = 0.02

// alertPriorities is the fixed urgency order, 1 = highest. Ranking semantics
// never change per call.
var alertPriorities = map[models.AlertKind]int{
	models.AlertEntry: 1,
	models.AlertCHoCH: 2,
	models.AlertNear:  3,
	models.AlertBOS:   4,
	models.AlertFVG:   5,
	models.AlertZone:  6,
}

func directionFor(d models.Direction) models.AlertDirection {
	if d == models.Bullish {
		return models.AlertBuy
	}
	return models.AlertSell
}

// GenerateAlerts combines the annotations with the current price into a
// ranked alert list. Order blocks yield entry alerts when price sits inside
// the range, or near alerts when price is within nearBand of an edge. Every
// retained structure break and gap yields one alert, and the premium/discount
// zone containing price yields one more. Sorted ascending by priority, ties
// broken by source recency.
func GenerateAlerts(price float64, blocks []models.OrderBlock, breaks []models.StructureBreakEvent,
	gaps []models.FairValueGap, zone models.Zone, asOf time.Time, nearBand float64) []models.Alert {

	if nearBand <= 0 {
		nearBand = DefaultNearBandPct
	}
	var alerts []models.Alert

	for i, b := range blocks {
		base := models.Alert{
			Direction:       directionFor(b.Direction),
			Source:          models.SourceOrderBlock,
			SourceIndex:     i,
			QualityScore:    b.QualityScore,
			VolumeConfirmed: b.VolumeConfirmed,
			TrendAligned:    b.TrendAligned,
			SourceTimestamp: b.OriginTimestamp,
		}
		switch {
		case price >= b.Bottom && price <= b.Top:
			base.Kind = models.AlertEntry
			base.Message = fmt.Sprintf("price inside %s order block %.2f-%.2f", b.Direction, b.Bottom, b.Top)
			alerts = append(alerts, base)
		case price > 0:
			dist := blockDistancePct(price, b)
			if dist <= nearBand {
				pct := dist * 100
				base.Kind = models.AlertNear
				base.DistancePct = &pct
				base.Message = fmt.Sprintf("price %.2f%% from %s order block", pct, b.Direction)
				alerts = append(alerts, base)
			}
		}
	}

	for i, ev := range breaks {
		kind := models.AlertBOS
		if ev.Kind == models.BreakCHoCH {
			kind = models.AlertCHoCH
		}
		alerts = append(alerts, models.Alert{
			Kind:            kind,
			Direction:       directionFor(ev.Direction),
			Source:          models.SourceStructureBreak,
			SourceIndex:     i,
			QualityScore:    50,
			SourceTimestamp: ev.Timestamp,
			Message:         fmt.Sprintf("%s %s at %.2f", ev.Direction, ev.Kind, ev.Level),
		})
	}

	for i, g := range gaps {
		alerts = append(alerts, models.Alert{
			Kind:            models.AlertFVG,
			Direction:       directionFor(g.Direction),
			Source:          models.SourceFVG,
			SourceIndex:     i,
			QualityScore:    50,
			SourceTimestamp: g.Timestamp,
			Message:         fmt.Sprintf("%s fair value gap %.2f-%.2f", g.Direction, g.Bottom, g.Top),
		})
	}

	switch zone.Classify(price) {
	case models.ZonePremium:
		alerts = append(alerts, models.Alert{
			Kind:            models.AlertZone,
			Direction:       models.AlertSell,
			Source:          models.SourceZone,
			QualityScore:    50,
			SourceTimestamp: asOf,
			Message:         fmt.Sprintf("price in premium zone above %.2f", zone.PremiumLow),
		})
	case models.ZoneDiscount:
		alerts = append(alerts, models.Alert{
			Kind:            models.AlertZone,
			Direction:       models.AlertBuy,
			Source:          models.SourceZone,
			QualityScore:    50,
			SourceTimestamp: asOf,
			Message:         fmt.Sprintf("price in discount zone below %.2f", zone.DiscountTop),
		})
	}

	for i := range alerts {
		alerts[i].Priority = alertPriorities[alerts[i].Kind]
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Priority != alerts[j].Priority {
			return alerts[i].Priority < alerts[j].Priority
		}
		return alerts[i].SourceTimestamp.After(alerts[j].SourceTimestamp)
	})
	return alerts
}

// blockDistancePct is the distance from price to the nearest block edge,
// relative to price.
func blockDistancePct(price float64, b models.OrderBlock) float64 {
	var dist float64
	switch {
	case price < b.Bottom:
		dist = b.Bottom - price
	case price > b.Top:
		dist = price - b.Top
	default:
		return 0
	}
	return math.Abs(dist) / price
}
