package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"SMCAlert/internal/domain/models"
	domrepo "SMCAlert/internal/domain/repository"
	"SMCAlert/internal/smc"
	pkgcache "SMCAlert/pkg/cache"
)

type fakeStore struct {
	calls   int
	candles []models.Candle
	failFor map[string]error
}

func (f *fakeStore) GetCandles(_ context.Context, symbol string, _, _ time.Time, _ domrepo.Timeframe) ([]models.Candle, error) {
	return f.fetch(symbol)
}

func (f *fakeStore) GetLatestNCandles(_ context.Context, symbol string, _ int, _ domrepo.Timeframe) ([]models.Candle, error) {
	return f.fetch(symbol)
}

func (f *fakeStore) fetch(symbol string) ([]models.Candle, error) {
	if err, ok := f.failFor[symbol]; ok {
		return nil, err
	}
	f.calls++
	return f.candles, nil
}

type mapCache struct {
	data     map[string][]byte
	patterns []string
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string][]byte)} }

func (m *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *mapCache) Get(_ context.Context, key string, dest interface{}) error {
	b, ok := m.data[key]
	if !ok {
		return pkgcache.ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (m *mapCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *mapCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

func (m *mapCache) Exists(_ context.Context, keys ...string) (bool, error) {
	for _, k := range keys {
		if _, ok := m.data[k]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func (m *mapCache) Increment(_ context.Context, _ string) (int64, error) { return 0, nil }

func (m *mapCache) Expire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

func (m *mapCache) MSet(_ context.Context, _ map[string]interface{}, _ time.Duration) error {
	return nil
}

func (m *mapCache) MGet(_ context.Context, _ ...string) (map[string]string, error) {
	return nil, nil
}

func (m *mapCache) TryLock(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

func (m *mapCache) Unlock(_ context.Context, _ string) error { return nil }

func testCandles(n int) []models.Candle {
	t0 := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	for i := range out {
		price := 100 + float64(i%5)*0.2
		out[i] = models.Candle{
			Bucket: t0.Add(time.Duration(i) * time.Minute),
			Symbol: "AAPL",
			Open:   price,
			High:   price + 0.5,
			Low:    price - 0.5,
			Close:  price,
			Volume: 1000,
		}
	}
	return out
}

func TestGetAnalysisCachesResult(t *testing.T) {
	store := &fakeStore{candles: testCandles(60)}
	cache := newMapCache()
	uc := NewAnalysisUseCase(store, smc.NewAnalyzer(smc.Config{}), WithCache(cache, time.Minute))

	p := AnalysisParams{Symbol: "AAPL", N: 60, Timeframe: domrepo.TF1m}
	first, err := uc.GetAnalysis(context.Background(), p)
	if err != nil {
		t.Fatalf("first GetAnalysis: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("store calls after first = %d, want 1", store.calls)
	}

	second, err := uc.GetAnalysis(context.Background(), p)
	if err != nil {
		t.Fatalf("second GetAnalysis: %v", err)
	}
	if store.calls != 1 {
		t.Errorf("store calls after second = %d, want 1 (cache hit)", store.calls)
	}
	if second.Symbol != first.Symbol || second.Consensus.Verdict != first.Consensus.Verdict {
		t.Errorf("cached result differs: %+v vs %+v", second.Consensus, first.Consensus)
	}
}

func TestGetAnalysisInsufficientData(t *testing.T) {
	store := &fakeStore{candles: testCandles(5)}
	uc := NewAnalysisUseCase(store, smc.NewAnalyzer(smc.Config{}))

	_, err := uc.GetAnalysis(context.Background(), AnalysisParams{Symbol: "AAPL", N: 5})
	if !errors.Is(err, smc.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestInvalidateDropsCachedEntries(t *testing.T) {
	store := &fakeStore{candles: testCandles(60)}
	cache := newMapCache()
	uc := NewAnalysisUseCase(store, smc.NewAnalyzer(smc.Config{}), WithCache(cache, time.Minute))

	p := AnalysisParams{Symbol: "AAPL", N: 60, Timeframe: domrepo.TF1m}
	if _, err := uc.GetAnalysis(context.Background(), p); err != nil {
		t.Fatalf("GetAnalysis: %v", err)
	}
	if err := uc.Invalidate(context.Background(), "AAPL"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	if _, err := uc.GetAnalysis(context.Background(), p); err != nil {
		t.Fatalf("GetAnalysis after invalidate: %v", err)
	}
	if store.calls != 2 {
		t.Errorf("store calls = %d, want 2 (recompute after invalidate)", store.calls)
	}
}

func TestGetConsensusMatchesAnalysis(t *testing.T) {
	store := &fakeStore{candles: testCandles(60)}
	uc := NewAnalysisUseCase(store, smc.NewAnalyzer(smc.Config{}))

	p := AnalysisParams{Symbol: "AAPL", N: 60, Timeframe: domrepo.TF1m}
	full, err := uc.GetAnalysis(context.Background(), p)
	if err != nil {
		t.Fatalf("GetAnalysis: %v", err)
	}
	cons, err := uc.GetConsensus(context.Background(), p)
	if err != nil {
		t.Fatalf("GetConsensus: %v", err)
	}
	if *cons != full.Consensus {
		t.Errorf("consensus = %+v, want %+v", *cons, full.Consensus)
	}
}

func TestWatchlistCollectsErrorsPerSymbol(t *testing.T) {
	store := &fakeStore{
		candles: testCandles(60),
		failFor: map[string]error{"BAD": fmt.Errorf("no data")},
	}
	uc := NewWatchlistUseCase(NewAnalysisUseCase(store, smc.NewAnalyzer(smc.Config{})))

	res, err := uc.Analyze(context.Background(), WatchlistParams{
		Symbols:   []string{"GOOD", "BAD"},
		N:         60,
		Timeframe: domrepo.TF1m,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Summary.Analyzed != 1 {
		t.Errorf("analyzed = %d, want 1", res.Summary.Analyzed)
	}
	if _, ok := res.Summary.Errors["BAD"]; !ok {
		t.Errorf("missing error entry for failed symbol: %v", res.Summary.Errors)
	}
	if len(res.Analyses) != 1 || res.Analyses[0].Symbol != "GOOD" {
		t.Errorf("analyses = %+v", res.Analyses)
	}
}

func TestMarketBias(t *testing.T) {
	cases := []struct {
		name    string
		summary models.WatchlistSummary
		want    models.Verdict
	}{
		{"no signals", models.WatchlistSummary{Analyzed: 4, Holds: 4}, models.VerdictHold},
		{"buy majority", models.WatchlistSummary{Analyzed: 4, Buys: 3, Sells: 1}, models.VerdictBuy},
		{"sell majority", models.WatchlistSummary{Analyzed: 4, Buys: 1, Sells: 3}, models.VerdictSell},
		{"split", models.WatchlistSummary{Analyzed: 6, Buys: 2, Sells: 1, Mixed: 3}, models.VerdictMixed},
	}
	for _, tc := range cases {
		if got := marketBias(tc.summary); got != tc.want {
			t.Errorf("%s: bias = %v, want %v", tc.name, got, tc.want)
		}
	}
}
