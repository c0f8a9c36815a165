package smc

import (
	"math"
	"testing"

	"SMCAlert/internal/domain/models"
)

func TestAggregateSingleDecisiveEntry(t *testing.T) {
	alerts := []models.Alert{
		{Kind: models.AlertEntry, Direction: models.AlertBuy, QualityScore: 80, VolumeConfirmed: true, TrendAligned: true},
	}
	res := Aggregate(alerts)
	// 3 * (1 + 0.8 + 0.2 + 0.2) = 6.6, unopposed
	if math.Abs(res.BuyScore-6.6) > 1e-9 {
		t.Errorf("buyScore = %v, want 6.6", res.BuyScore)
	}
	if res.Verdict != models.VerdictBuy || res.Confidence != 100 {
		t.Errorf("got %s/%d, want buy/100", res.Verdict, res.Confidence)
	}
	if res.BuySignalCount != 1 || res.SellSignalCount != 0 {
		t.Errorf("counts = %d/%d, want 1/0", res.BuySignalCount, res.SellSignalCount)
	}
}

func TestAggregateEmpty(t *testing.T) {
	res := Aggregate(nil)
	if res.Verdict != models.VerdictHold || res.Confidence != 0 {
		t.Fatalf("got %s/%d, want hold/0", res.Verdict, res.Confidence)
	}
}

func TestAggregateMixed(t *testing.T) {
	// buy side: entry 3*1.5=4.5 plus zone 0.5*1.0=0.5 -> 5.0
	// sell side: near 2*2.0=4.0
	// ratio = 1/9 ~ 0.111 < 0.3 -> mixed, confidence round(50+5.56)=56
	alerts := []models.Alert{
		{Kind: models.AlertEntry, Direction: models.AlertBuy, QualityScore: 50},
		{Kind: models.AlertZone, Direction: models.AlertBuy, QualityScore: 0},
		{Kind: models.AlertNear, Direction: models.AlertSell, QualityScore: 100},
	}
	res := Aggregate(alerts)
	if res.BuyScore != 5 || res.SellScore != 4 {
		t.Fatalf("scores = %v/%v, want 5/4", res.BuyScore, res.SellScore)
	}
	if res.Verdict != models.VerdictMixed {
		t.Errorf("verdict = %s, want mixed", res.Verdict)
	}
	if res.Confidence != 56 {
		t.Errorf("confidence = %d, want 56", res.Confidence)
	}
}

func TestAggregateSellSide(t *testing.T) {
	alerts := []models.Alert{
		{Kind: models.AlertCHoCH, Direction: models.AlertSell, QualityScore: 50},
		{Kind: models.AlertBOS, Direction: models.AlertSell, QualityScore: 50},
		{Kind: models.AlertZone, Direction: models.AlertBuy, QualityScore: 50},
	}
	res := Aggregate(alerts)
	if res.Verdict != models.VerdictSell {
		t.Errorf("verdict = %s, want sell", res.Verdict)
	}
	if res.Confidence < 50 || res.Confidence > 100 {
		t.Errorf("confidence %d out of [50,100]", res.Confidence)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	alerts := []models.Alert{
		{Kind: models.AlertEntry, Direction: models.AlertBuy, QualityScore: 70, VolumeConfirmed: true},
		{Kind: models.AlertFVG, Direction: models.AlertSell, QualityScore: 50},
		{Kind: models.AlertNear, Direction: models.AlertSell, QualityScore: 30, TrendAligned: true},
	}
	first := Aggregate(alerts)
	second := Aggregate(alerts)
	if first != second {
		t.Fatalf("aggregation not idempotent: %+v vs %+v", first, second)
	}
}

func TestAggregateConfidenceBounds(t *testing.T) {
	kinds := []models.AlertKind{
		models.AlertEntry, models.AlertCHoCH, models.AlertNear,
		models.AlertBOS, models.AlertFVG, models.AlertZone,
	}
	var alerts []models.Alert
	for i, k := range kinds {
		dir := models.AlertBuy
		if i%2 == 1 {
			dir = models.AlertSell
		}
		alerts = append(alerts, models.Alert{Kind: k, Direction: dir, QualityScore: i * 20})
		res := Aggregate(alerts)
		if res.Confidence < 0 || res.Confidence > 100 {
			t.Fatalf("confidence %d out of range after %d alerts", res.Confidence, len(alerts))
		}
	}
}
