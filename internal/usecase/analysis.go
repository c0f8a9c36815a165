package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SMCAlert/internal/domain/models"
	domrepo "SMCAlert/internal/domain/repository"
	"SMCAlert/internal/smc"
	pkgcache "SMCAlert/pkg/cache"
	applogger "SMCAlert/pkg/logger"
)

const defaultWindow = 100

// AnalysisUseCase fetches a candle window, runs the structure analyzer, and
// caches the result per symbol/timeframe for the configured freshness window.
// The cache is injected; the engine itself never touches it.
type AnalysisUseCase struct {
	store    domrepo.CandleStore
	analyzer *smc.Analyzer
	cache    pkgcache.Service
	cacheTTL time.Duration
	timeout  time.Duration
	l        *applogger.Logger
}

type AnalysisOption func(*AnalysisUseCase)

// WithCache enables result caching with the given TTL.
func WithCache(c pkgcache.Service, ttl time.Duration) AnalysisOption {
	return func(uc *AnalysisUseCase) {
		uc.cache = c
		if ttl > 0 {
			uc.cacheTTL = ttl
		}
	}
}

// WithFetchTimeout bounds the candle fetch.
func WithFetchTimeout(d time.Duration) AnalysisOption {
	return func(uc *AnalysisUseCase) {
		if d > 0 {
			uc.timeout = d
		}
	}
}

// WithLogger injects a structured logger.
func WithLogger(l *applogger.Logger) AnalysisOption {
	return func(uc *AnalysisUseCase) { uc.l = l }
}

func NewAnalysisUseCase(store domrepo.CandleStore, analyzer *smc.Analyzer, opts ...AnalysisOption) *AnalysisUseCase {
	uc := &AnalysisUseCase{
		store:    store,
		analyzer: analyzer,
		cacheTTL: 15 * time.Minute,
		timeout:  10 * time.Second,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type AnalysisParams struct {
	Symbol    string
	N         int
	Timeframe domrepo.Timeframe
}

func analysisCacheKey(p AnalysisParams) string {
	return pkgcache.GenerateKeyWithParams("analysis", p.Symbol, p.Timeframe, p.N)
}

// GetAnalysis returns the structure analysis for one symbol, serving a cached
// result when one is still fresh.
func (uc *AnalysisUseCase) GetAnalysis(ctx context.Context, p AnalysisParams) (*models.Analysis, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.N <= 0 {
		p.N = defaultWindow
	}

	if uc.cache != nil {
		var cached models.Analysis
		if err := uc.cache.Get(ctx, analysisCacheKey(p), &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, pkgcache.ErrCacheMiss) && uc.l != nil {
			uc.l.Warn("analysis cache read failed",
				applogger.String("symbol", p.Symbol),
				applogger.Error(err),
			)
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	candles, err := uc.store.GetLatestNCandles(fetchCtx, p.Symbol, p.N, p.Timeframe)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}

	res, err := uc.analyzer.Analyze(p.Symbol, string(p.Timeframe), candles, 0)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, analysisCacheKey(p), res, uc.cacheTTL); err != nil && uc.l != nil {
			uc.l.Warn("analysis cache write failed",
				applogger.String("symbol", p.Symbol),
				applogger.Error(err),
			)
		}
	}
	if uc.l != nil {
		uc.l.Info("analysis computed",
			applogger.String("symbol", p.Symbol),
			applogger.String("tf", string(p.Timeframe)),
			applogger.Int("alerts", len(res.Alerts)),
			applogger.String("verdict", string(res.Consensus.Verdict)),
		)
	}
	return res, nil
}

// GetConsensus runs the analysis and returns only the collapsed verdict.
func (uc *AnalysisUseCase) GetConsensus(ctx context.Context, p AnalysisParams) (*models.ConsensusResult, error) {
	res, err := uc.GetAnalysis(ctx, p)
	if err != nil {
		return nil, err
	}
	return &res.Consensus, nil
}

// Invalidate drops any cached analysis for the symbol.
func (uc *AnalysisUseCase) Invalidate(ctx context.Context, symbol string) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.DeleteByPattern(ctx, pkgcache.BuildPattern(pkgcache.GenerateKey("analysis", symbol)+":"))
}
