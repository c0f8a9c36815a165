package smc

import (
	"math"
	"testing"

	"SMCAlert/internal/domain/models"
)

func TestDetectOrderBlocksShortWindow(t *testing.T) {
	if got := DetectOrderBlocks(flatCandles(19, 10)); got != nil {
		t.Fatalf("expected nil for short window, got %d blocks", len(got))
	}
}

func TestDetectOrderBlocksBullish(t *testing.T) {
	candles := flatCandles(24, 10)
	plantBullishBlock(candles, 10)

	blocks := DetectOrderBlocks(candles)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	b := blocks[0]
	if b.Direction != models.Bullish {
		t.Errorf("expected bullish, got %s", b.Direction)
	}
	if b.Top != 10 || b.Bottom != 9.5 {
		t.Errorf("unexpected range [%v, %v]", b.Bottom, b.Top)
	}
	wantStrength := (10.2 - 9.5) / 9.5 * 100
	if math.Abs(b.Strength-wantStrength) > 1e-9 {
		t.Errorf("strength = %v, want %v", b.Strength, wantStrength)
	}
}

func TestDetectOrderBlocksBearish(t *testing.T) {
	candles := flatCandles(24, 10)
	// up bar then a down bar closing >1% below the up bar's high
	candles[9].Open = 9.8
	candles[9].High = 10.5
	candles[9].Low = 9.75
	candles[9].Close = 10.4
	candles[9].Volume = 100
	candles[10].Open = 10.4
	candles[10].High = 10.45
	candles[10].Low = 10.1
	candles[10].Close = 10.2
	candles[10].Volume = 2000
	candles[11].Volume = 100

	blocks := DetectOrderBlocks(candles)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	b := blocks[0]
	if b.Direction != models.Bearish {
		t.Errorf("expected bearish, got %s", b.Direction)
	}
	if b.Top != 10.5 || b.Bottom != 9.8 {
		t.Errorf("unexpected range [%v, %v]", b.Bottom, b.Top)
	}
}

func TestDetectOrderBlocksRetention(t *testing.T) {
	candles := flatCandles(40, 10)
	for i := 3; i+1 < len(candles)-1; i += 3 {
		plantBullishBlock(candles, i)
	}

	blocks := DetectOrderBlocks(candles)
	if len(blocks) != maxOrderBlocks {
		t.Fatalf("expected %d blocks, got %d", maxOrderBlocks, len(blocks))
	}
	for i, b := range blocks {
		if b.Top < b.Bottom {
			t.Errorf("block %d: top %v < bottom %v", i, b.Top, b.Bottom)
		}
		if i > 0 && blocks[i].OriginTimestamp.Before(blocks[i-1].OriginTimestamp) {
			t.Errorf("blocks out of chronological order at %d", i)
		}
	}
	// oldest dropped: the first planted block must not survive
	first := candles[2].Bucket
	for _, b := range blocks {
		if b.OriginTimestamp.Equal(first) {
			t.Errorf("oldest block was retained")
		}
	}
}

func TestOrderBlockTested(t *testing.T) {
	candles := flatCandles(24, 10)
	plantBullishBlock(candles, 10)
	// fixture bars after the pair trade back through [9.5, 10]
	blocks := DetectOrderBlocks(candles)
	if len(blocks) != 1 || !blocks[0].Tested {
		t.Fatalf("expected tested block, got %+v", blocks)
	}

	// move all later bars away from the range and the flag stays false
	candles = flatCandles(24, 10)
	plantBullishBlock(candles, 10)
	for i := 11; i < len(candles); i++ {
		candles[i].Open = 11
		candles[i].High = 11.2
		candles[i].Low = 10.8
		candles[i].Close = 11
	}
	blocks = DetectOrderBlocks(candles)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Tested {
		t.Errorf("block marked tested without a re-entry")
	}
}
