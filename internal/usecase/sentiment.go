package usecase

import (
	"context"
	"fmt"
	"time"

	"SMCAlert/internal/domain/models"
	domsvc "SMCAlert/internal/domain/service"
	"SMCAlert/internal/sentiment"
	pkgcache "SMCAlert/pkg/cache"
)

const sentimentCacheKey = "sentiment:composite"

// SentimentUseCase fetches macro sub-scores and blends them into the
// market-wide read. Indicator fetches are slow and coarse, so the composite is
// cached for the configured freshness window.
type SentimentUseCase struct {
	source   domsvc.IndicatorSource
	composer *sentiment.Composer
	cache    pkgcache.Service
	cacheTTL time.Duration
}

func NewSentimentUseCase(source domsvc.IndicatorSource, composer *sentiment.Composer, cache pkgcache.Service, ttl time.Duration) *SentimentUseCase {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SentimentUseCase{source: source, composer: composer, cache: cache, cacheTTL: ttl}
}

func (uc *SentimentUseCase) GetSentiment(ctx context.Context) (*models.SentimentScore, error) {
	if uc.cache != nil {
		var cached models.SentimentScore
		if err := uc.cache.Get(ctx, sentimentCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	in, err := uc.source.FetchIndicators(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch indicators: %w", err)
	}
	score := uc.composer.Compose(in, time.Now())

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, sentimentCacheKey, score, uc.cacheTTL)
	}
	return &score, nil
}
