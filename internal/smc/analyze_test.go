package smc

import (
	"errors"
	"testing"

	"SMCAlert/internal/domain/models"
)

func TestAnalyzeInsufficientData(t *testing.T) {
	a := NewAnalyzer(Config{})
	res, err := a.Analyze("AAPL", "1m", flatCandles(19, 10), 10)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected no partial output, got %+v", res)
	}
}

func TestAnalyzeQuietWindowHolds(t *testing.T) {
	a := NewAnalyzer(Config{})
	res, err := a.Analyze("AAPL", "1m", flatCandles(30, 10), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Price != 10 {
		t.Errorf("price fallback = %v, want last close 10", res.Price)
	}
	if len(res.Alerts) != 0 {
		t.Errorf("flat window produced alerts: %+v", res.Alerts)
	}
	if res.Consensus.Verdict != models.VerdictHold || res.Consensus.Confidence != 0 {
		t.Errorf("got %s/%d, want hold/0", res.Consensus.Verdict, res.Consensus.Confidence)
	}
	if res.CurrentZone != models.ZoneEquilibrium {
		t.Errorf("zone = %s, want equilibrium", res.CurrentZone)
	}
}

func TestAnalyzeEntryQualityMatchesBlock(t *testing.T) {
	candles := flatCandles(24, 10)
	plantBullishBlock(candles, 10)

	a := NewAnalyzer(Config{})
	res, err := a.Analyze("AAPL", "1m", candles, 9.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.OrderBlocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(res.OrderBlocks))
	}
	b := res.OrderBlocks[0]

	var entry *models.Alert
	for i := range res.Alerts {
		if res.Alerts[i].Kind == models.AlertEntry {
			entry = &res.Alerts[i]
			break
		}
	}
	if entry == nil {
		t.Fatalf("no entry alert for price inside the block")
	}
	if entry.Direction != models.AlertBuy {
		t.Errorf("bullish block entry = %s, want buy", entry.Direction)
	}
	if entry.QualityScore != b.QualityScore ||
		entry.VolumeConfirmed != b.VolumeConfirmed ||
		entry.TrendAligned != b.TrendAligned {
		t.Errorf("alert quality %d/%v/%v diverges from block %d/%v/%v",
			entry.QualityScore, entry.VolumeConfirmed, entry.TrendAligned,
			b.QualityScore, b.VolumeConfirmed, b.TrendAligned)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	candles := flatCandles(30, 10)
	plantBullishBlock(candles, 12)

	a := NewAnalyzer(Config{})
	first, err := a.Analyze("AAPL", "1m", candles, 9.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := a.Analyze("AAPL", "1m", candles, 9.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Consensus != second.Consensus {
		t.Errorf("consensus differs across runs: %+v vs %+v", first.Consensus, second.Consensus)
	}
	if len(first.Alerts) != len(second.Alerts) {
		t.Errorf("alert counts differ across runs")
	}
}
