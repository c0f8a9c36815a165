package smc

import (
	"math"

	"SMCAlert/internal/domain/models"
)

const (
	volumeConfirmRatio = 1.2 // origin volume vs window average

	qualityStrengthWeight = 0.5
	qualityVolumeWeight   = 0.3
	qualityTrendWeight    = 0.2
)

// ScoreBlocks assigns qualityScore to each block in place. This is the single
// place quality is computed; the alert generator and the consensus aggregator
// both read the result, so the two stay consistent.
//
// The score blends the block's strength (50%), its origin volume ratio versus
// the window average (30%, saturating at 2x), and trend alignment (20%).
func ScoreBlocks(blocks []models.OrderBlock, candles []models.Candle, trend models.TrendInfo) {
	avgVol := averageVolume(candles)
	for i := range blocks {
		b := &blocks[i]

		ratio := 0.0
		if avgVol > 0 {
			ratio = b.OriginVolume / avgVol
		}
		b.VolumeConfirmed = ratio >= volumeConfirmRatio
		b.TrendAligned = trend.Aligned(b.Direction)

		volComponent := math.Min(ratio*50, 100)
		trendComponent := 0.0
		if b.TrendAligned {
			trendComponent = 100
		}
		score := qualityStrengthWeight*b.Strength +
			qualityVolumeWeight*volComponent +
			qualityTrendWeight*trendComponent
		b.QualityScore = int(math.Round(math.Max(0, math.Min(score, 100))))
	}
}
