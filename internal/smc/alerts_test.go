package smc

import (
	"math"
	"testing"
	"time"

	"SMCAlert/internal/domain/models"
)

func block(dir models.Direction, bottom, top float64, at time.Time) models.OrderBlock {
	return models.OrderBlock{
		Direction: dir, Bottom: bottom, Top: top,
		OriginTimestamp: at, QualityScore: 60,
	}
}

func TestGenerateAlertsEntryDirection(t *testing.T) {
	zone := models.Zone{RangeHigh: 20, RangeLow: 5, Equilibrium: 12.5, PremiumLow: 15, DiscountTop: 10}
	blocks := []models.OrderBlock{
		block(models.Bullish, 9.5, 10.5, t0),
		block(models.Bearish, 9.8, 10.2, t0.Add(time.Minute)),
	}
	alerts := GenerateAlerts(10, blocks, nil, nil, zone, t0.Add(2*time.Minute), 0)

	entries := 0
	for _, a := range alerts {
		if a.Kind != models.AlertEntry {
			continue
		}
		entries++
		if a.Priority != 1 {
			t.Errorf("entry priority = %d, want 1", a.Priority)
		}
	}
	if entries != 2 {
		t.Fatalf("expected 2 entry alerts, got %d", entries)
	}
	// bullish -> buy, bearish -> sell
	if alerts[0].Kind != models.AlertEntry {
		t.Fatalf("expected entries first, got %s", alerts[0].Kind)
	}
	for _, a := range alerts[:2] {
		bearish := a.Direction == models.AlertSell
		if bearish && a.SourceTimestamp.Equal(t0) {
			t.Errorf("sell entry should come from the bearish block")
		}
	}
}

func TestGenerateAlertsNearBand(t *testing.T) {
	zone := models.Zone{RangeHigh: 200, RangeLow: 50, Equilibrium: 125, PremiumLow: 150, DiscountTop: 100}
	blocks := []models.OrderBlock{block(models.Bullish, 98, 99, t0)}

	// price 1% above the top edge
	alerts := GenerateAlerts(99.99, blocks, nil, nil, zone, t0, 0.02)
	if len(alerts) != 2 { // near + discount zone
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	near := alerts[0]
	if near.Kind != models.AlertNear || near.DistancePct == nil {
		t.Fatalf("expected near alert with distance, got %+v", near)
	}
	wantPct := (99.99 - 99) / 99.99 * 100
	if math.Abs(*near.DistancePct-wantPct) > 1e-9 {
		t.Errorf("distancePct = %v, want %v", *near.DistancePct, wantPct)
	}

	// outside the band: no near alert
	alerts = GenerateAlerts(110, blocks, nil, nil, zone, t0, 0.02)
	for _, a := range alerts {
		if a.Kind == models.AlertNear {
			t.Errorf("unexpected near alert at 10%% distance")
		}
	}
}

func TestGenerateAlertsZoneDirection(t *testing.T) {
	zone := models.Zone{RangeHigh: 200, RangeLow: 100, Equilibrium: 150, PremiumLow: 166, DiscountTop: 133}

	alerts := GenerateAlerts(180, nil, nil, nil, zone, t0, 0)
	if len(alerts) != 1 || alerts[0].Kind != models.AlertZone || alerts[0].Direction != models.AlertSell {
		t.Fatalf("premium zone should sell, got %+v", alerts)
	}
	alerts = GenerateAlerts(110, nil, nil, nil, zone, t0, 0)
	if len(alerts) != 1 || alerts[0].Direction != models.AlertBuy {
		t.Fatalf("discount zone should buy, got %+v", alerts)
	}
	alerts = GenerateAlerts(150, nil, nil, nil, zone, t0, 0)
	if len(alerts) != 0 {
		t.Fatalf("equilibrium should stay quiet, got %+v", alerts)
	}
}

func TestGenerateAlertsPriorityOrder(t *testing.T) {
	zone := models.Zone{RangeHigh: 200, RangeLow: 100, Equilibrium: 150, PremiumLow: 166, DiscountTop: 133}
	blocks := []models.OrderBlock{block(models.Bullish, 108, 112, t0)}
	breaks := []models.StructureBreakEvent{
		{Kind: models.BreakBOS, Direction: models.Bullish, Level: 120, Timestamp: t0.Add(time.Minute)},
		{Kind: models.BreakCHoCH, Direction: models.Bearish, Level: 140, Timestamp: t0.Add(2 * time.Minute)},
	}
	gaps := []models.FairValueGap{
		{Direction: models.Bullish, Top: 118, Bottom: 115, Timestamp: t0.Add(3 * time.Minute)},
	}

	alerts := GenerateAlerts(110, blocks, breaks, gaps, zone, t0.Add(4*time.Minute), 0)
	want := []models.AlertKind{
		models.AlertEntry, models.AlertCHoCH, models.AlertBOS, models.AlertFVG, models.AlertZone,
	}
	if len(alerts) != len(want) {
		t.Fatalf("expected %d alerts, got %d", len(want), len(alerts))
	}
	for i, k := range want {
		if alerts[i].Kind != k {
			t.Errorf("alert %d = %s, want %s", i, alerts[i].Kind, k)
		}
	}
	for i := 1; i < len(alerts); i++ {
		if alerts[i].Priority < alerts[i-1].Priority {
			t.Errorf("priorities out of order at %d", i)
		}
	}
}

func TestGenerateAlertsRecencyTiebreak(t *testing.T) {
	zone := models.Zone{RangeHigh: 200, RangeLow: 100, Equilibrium: 150, PremiumLow: 166, DiscountTop: 133}
	breaks := []models.StructureBreakEvent{
		{Kind: models.BreakBOS, Direction: models.Bullish, Level: 120, Timestamp: t0},
		{Kind: models.BreakBOS, Direction: models.Bullish, Level: 125, Timestamp: t0.Add(time.Minute)},
	}
	alerts := GenerateAlerts(150, nil, breaks, nil, zone, t0.Add(2*time.Minute), 0)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if !alerts[0].SourceTimestamp.After(alerts[1].SourceTimestamp) {
		t.Errorf("expected the newer break first within equal priority")
	}
}

func TestGenerateAlertsSourceRefs(t *testing.T) {
	zone := models.Zone{RangeHigh: 200, RangeLow: 50, Equilibrium: 125, PremiumLow: 150, DiscountTop: 100}
	blocks := []models.OrderBlock{
		block(models.Bullish, 98, 99, t0),
		block(models.Bullish, 119, 121, t0.Add(time.Minute)),
	}
	breaks := []models.StructureBreakEvent{
		{Kind: models.BreakBOS, Direction: models.Bullish, Level: 130, Timestamp: t0},
	}
	gaps := []models.FairValueGap{
		{Direction: models.Bearish, Bottom: 110, Top: 112, Timestamp: t0},
	}
	alerts := GenerateAlerts(120, blocks, breaks, gaps, zone, t0, 0.02)

	for _, a := range alerts {
		switch a.Kind {
		case models.AlertEntry, models.AlertNear:
			if a.Source != models.SourceOrderBlock {
				t.Errorf("%s source = %s, want order_block", a.Kind, a.Source)
			}
			b := blocks[a.SourceIndex]
			if !a.SourceTimestamp.Equal(b.OriginTimestamp) {
				t.Errorf("%s sourceIndex %d resolves to the wrong block", a.Kind, a.SourceIndex)
			}
		case models.AlertBOS, models.AlertCHoCH:
			if a.Source != models.SourceStructureBreak || a.SourceIndex != 0 {
				t.Errorf("break source = %s/%d, want structure_break/0", a.Source, a.SourceIndex)
			}
		case models.AlertFVG:
			if a.Source != models.SourceFVG || a.SourceIndex != 0 {
				t.Errorf("fvg source = %s/%d, want fvg/0", a.Source, a.SourceIndex)
			}
		case models.AlertZone:
			if a.Source != models.SourceZone {
				t.Errorf("zone source = %s, want zone", a.Source)
			}
		}
	}
	// price 120 sits inside the second block: its entry must index block 1
	for _, a := range alerts {
		if a.Kind == models.AlertEntry && a.SourceIndex != 1 {
			t.Errorf("entry sourceIndex = %d, want 1", a.SourceIndex)
		}
	}

	// price 90 sits in the discount zone
	alerts = GenerateAlerts(90, nil, nil, nil, zone, t0, 0.02)
	if len(alerts) != 1 || alerts[0].Kind != models.AlertZone {
		t.Fatalf("expected single zone alert, got %+v", alerts)
	}
	if alerts[0].Source != models.SourceZone {
		t.Errorf("zone source = %s, want zone", alerts[0].Source)
	}
}
