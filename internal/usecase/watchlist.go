package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SMCAlert/internal/domain/models"
	domrepo "SMCAlert/internal/domain/repository"
)

// WatchlistUseCase runs the analysis over a batch of symbols. Symbols are
// independent, so the batch fans out with bounded concurrency and per-symbol
// failures land in the summary instead of failing the sweep.
type WatchlistUseCase struct {
	analysis    *AnalysisUseCase
	timeout     time.Duration
	concurrency int
}

func NewWatchlistUseCase(analysis *AnalysisUseCase) *WatchlistUseCase {
	return &WatchlistUseCase{analysis: analysis, timeout: 30 * time.Second, concurrency: 8}
}

type WatchlistParams struct {
	Symbols   []string
	N         int
	Timeframe domrepo.Timeframe
}

type WatchlistResult struct {
	Analyses []models.Analysis
	Summary  models.WatchlistSummary
}

func (uc *WatchlistUseCase) Analyze(ctx context.Context, p WatchlistParams) (*WatchlistResult, error) {
	if len(p.Symbols) == 0 {
		return nil, fmt.Errorf("symbols required")
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	type item struct {
		symbol string
		res    *models.Analysis
		err    error
	}
	ch := make(chan item, len(p.Symbols))
	sem := make(chan struct{}, uc.concurrency)
	var wg sync.WaitGroup

	for _, symbol := range p.Symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			res, err := uc.analysis.GetAnalysis(ctx, AnalysisParams{
				Symbol: symbol, N: p.N, Timeframe: p.Timeframe,
			})
			ch <- item{symbol, res, err}
		}(symbol)
	}
	go func() { wg.Wait(); close(ch) }()

	out := &WatchlistResult{
		Summary: models.WatchlistSummary{
			Timestamp: time.Now(),
			Errors:    map[string]string{},
		},
	}
	for it := range ch {
		if it.err != nil {
			out.Summary.Errors[it.symbol] = it.err.Error()
			continue
		}
		out.Analyses = append(out.Analyses, *it.res)
		out.Summary.Analyzed++
		switch it.res.Consensus.Verdict {
		case models.VerdictBuy:
			out.Summary.Buys++
		case models.VerdictSell:
			out.Summary.Sells++
		case models.VerdictMixed:
			out.Summary.Mixed++
		default:
			out.Summary.Holds++
		}
	}
	out.Summary.Bias = marketBias(out.Summary)

	if len(out.Summary.Errors) == 0 {
		out.Summary.Errors = nil
	}
	return out, nil
}

// marketBias rolls the verdict counts into one directional read for the batch.
func marketBias(s models.WatchlistSummary) models.Verdict {
	switch {
	case s.Analyzed == 0:
		return models.VerdictHold
	case s.Buys > s.Sells && s.Buys*2 >= s.Analyzed:
		return models.VerdictBuy
	case s.Sells > s.Buys && s.Sells*2 >= s.Analyzed:
		return models.VerdictSell
	case s.Buys == s.Sells && s.Buys == 0:
		return models.VerdictHold
	default:
		return models.VerdictMixed
	}
}
