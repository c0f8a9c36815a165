package smc

import (
	"testing"
	"time"

	"SMCAlert/internal/domain/models"
)

func bar(i int, open, high, low, close float64) models.Candle {
	return models.Candle{
		Bucket: t0.Add(time.Duration(i) * time.Minute),
		Open:   open, High: high, Low: low, Close: close,
		Volume: 1000,
	}
}

func TestStructureBreakBullishBOS(t *testing.T) {
	candles := []models.Candle{
		bar(0, 9.5, 10, 9, 9.5),
		bar(1, 9.5, 10.6, 9.4, 10.5), // closes above the seed high of 10
	}
	events := DetectStructureBreaks(candles)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Kind != models.BreakBOS || ev.Direction != models.Bullish {
		t.Errorf("expected bullish BOS, got %s %s", ev.Direction, ev.Kind)
	}
	if ev.Level != 10 {
		t.Errorf("level = %v, want 10", ev.Level)
	}
}

// The reference this engine was modeled on emits every break as the same
// event kind. Here the first break against the established bias is classified
// as CHoCH and flips the bias; breaks continuing the bias stay BOS.
func TestStructureCHoCHOnReversal(t *testing.T) {
	candles := []models.Candle{
		bar(0, 9.5, 10, 9, 9.5),
		bar(1, 9.5, 10.6, 10, 10.5),  // bullish BOS at 10, bias turns up
		bar(2, 10.4, 10.5, 8.4, 8.5), // closes below running low 9: CHoCH
		bar(3, 8.5, 8.6, 7.9, 8.0),   // continues down: BOS at 8.4
	}
	events := DetectStructureBreaks(candles)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	want := []struct {
		kind  models.BreakKind
		dir   models.Direction
		level float64
	}{
		{models.BreakBOS, models.Bullish, 10},
		{models.BreakCHoCH, models.Bearish, 9},
		{models.BreakBOS, models.Bearish, 8.4},
	}
	for i, w := range want {
		if events[i].Kind != w.kind || events[i].Direction != w.dir || events[i].Level != w.level {
			t.Errorf("event %d = %s %s @%v, want %s %s @%v",
				i, events[i].Direction, events[i].Kind, events[i].Level, w.dir, w.kind, w.level)
		}
	}
}

func TestStructureBreakRetention(t *testing.T) {
	var candles []models.Candle
	candles = append(candles, bar(0, 10, 10.2, 9.8, 10))
	// every bar closes above the previous running high
	for i := 1; i < 12; i++ {
		p := 10 + float64(i)
		candles = append(candles, bar(i, p-0.5, p+0.3, p-0.6, p))
	}
	events := DetectStructureBreaks(candles)
	if len(events) != maxStructureBreaks {
		t.Fatalf("expected %d events, got %d", maxStructureBreaks, len(events))
	}
	for _, ev := range events {
		if ev.Kind != models.BreakBOS || ev.Direction != models.Bullish {
			t.Errorf("expected bullish BOS chain, got %s %s", ev.Direction, ev.Kind)
		}
	}
	// newest retained: the last event carries the last bar's timestamp
	last := events[len(events)-1]
	if !last.Timestamp.Equal(candles[len(candles)-1].Bucket) {
		t.Errorf("expected newest event last, got %v", last.Timestamp)
	}
}
