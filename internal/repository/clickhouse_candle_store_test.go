package repository

import (
	"testing"
	"time"

	"SMCAlert/internal/domain/models"
	domrepo "SMCAlert/internal/domain/repository"
)

func minuteCandle(t0 time.Time, i int, open, high, low, close, vol float64) models.Candle {
	return models.Candle{
		Bucket: t0.Add(time.Duration(i) * time.Minute),
		Symbol: "AAPL",
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: vol,
	}
}

func TestAggregateCandlesMergesBuckets(t *testing.T) {
	t0 := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	in := []models.Candle{
		minuteCandle(t0, 0, 100, 101, 99, 100.5, 10),
		minuteCandle(t0, 1, 100.5, 102, 100, 101, 20),
		minuteCandle(t0, 2, 101, 101.5, 98, 99, 30),
		minuteCandle(t0, 3, 99, 100, 98.5, 99.5, 5),
		minuteCandle(t0, 4, 99.5, 103, 99, 102, 15),
		minuteCandle(t0, 5, 102, 104, 101, 103, 40),
	}

	out := aggregateCandles(in, 5*time.Minute)
	if len(out) != 2 {
		t.Fatalf("got %d buckets, want 2", len(out))
	}

	first := out[0]
	if !first.Bucket.Equal(t0) {
		t.Errorf("first bucket = %v, want %v", first.Bucket, t0)
	}
	if first.Open != 100 {
		t.Errorf("open = %v, want open of first minute", first.Open)
	}
	if first.High != 103 {
		t.Errorf("high = %v, want 103", first.High)
	}
	if first.Low != 98 {
		t.Errorf("low = %v, want 98", first.Low)
	}
	if first.Close != 102 {
		t.Errorf("close = %v, want close of last minute in bucket", first.Close)
	}
	if first.Volume != 80 {
		t.Errorf("volume = %v, want 80", first.Volume)
	}

	second := out[1]
	if !second.Bucket.Equal(t0.Add(5 * time.Minute)) {
		t.Errorf("second bucket = %v", second.Bucket)
	}
	if second.Open != 102 || second.Close != 103 || second.Volume != 40 {
		t.Errorf("second = %+v", second)
	}
}

func TestAggregateCandlesEmptyAndSingle(t *testing.T) {
	if out := aggregateCandles(nil, 5*time.Minute); len(out) != 0 {
		t.Errorf("nil input produced %d candles", len(out))
	}

	t0 := time.Date(2025, 6, 2, 14, 32, 0, 0, time.UTC)
	out := aggregateCandles([]models.Candle{minuteCandle(t0, 0, 100, 101, 99, 100, 10)}, 5*time.Minute)
	if len(out) != 1 {
		t.Fatalf("got %d candles, want 1", len(out))
	}
	if !out[0].Bucket.Equal(t0.Truncate(5 * time.Minute)) {
		t.Errorf("bucket not aligned: %v", out[0].Bucket)
	}
}

func TestTableForTFUsesConfiguredDatabase(t *testing.T) {
	s := &CHCandleStore{database: "marketdata"}

	table, err := s.tableForTF(domrepo.TF1s)
	if err != nil || table != "marketdata.rt_candles_1s" {
		t.Errorf("1s table = %q (%v), want marketdata.rt_candles_1s", table, err)
	}
	for _, tf := range []domrepo.Timeframe{domrepo.TF1m, domrepo.TF5m} {
		table, err = s.tableForTF(tf)
		if err != nil || table != "marketdata.rt_candles_1m" {
			t.Errorf("%s table = %q (%v), want marketdata.rt_candles_1m", tf, table, err)
		}
	}
	if _, err = s.tableForTF("1h"); err == nil {
		t.Error("expected error for unsupported timeframe")
	}
}
