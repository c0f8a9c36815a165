package smc

import (
	"SMCAlert/internal/domain/models"
)

const maxFairValueGaps = 5

// DetectFairValueGaps finds 3-bar imbalances: a bullish gap when bar i's low
// clears bar i-2's high, bearish when bar i's high stays under bar i-2's low.
// Each gap is then scanned forward; a later bar whose range fully covers the
// gap marks it filled.
func DetectFairValueGaps(candles []models.Candle) []models.FairValueGap {
	if len(candles) < 3 {
		return nil
	}

	type candidate struct {
		gap models.FairValueGap
		at  int
	}
	var found []candidate
	for i := 2; i < len(candles); i++ {
		first, third := candles[i-2], candles[i]

		if third.Low > first.High {
			found = append(found, candidate{at: i, gap: models.FairValueGap{
				Direction: models.Bullish,
				Top:       third.Low,
				Bottom:    first.High,
				Timestamp: candles[i-1].Bucket,
			}})
		}
		if third.High < first.Low {
			found = append(found, candidate{at: i, gap: models.FairValueGap{
				Direction: models.Bearish,
				Top:       first.Low,
				Bottom:    third.High,
				Timestamp: candles[i-1].Bucket,
			}})
		}
	}

	found = keepNewest(found, maxFairValueGaps)

	gaps := make([]models.FairValueGap, 0, len(found))
	for _, c := range found {
		for j := c.at + 1; j < len(candles); j++ {
			if candles[j].Low <= c.gap.Bottom && candles[j].High >= c.gap.Top {
				c.gap.Filled = true
				break
			}
		}
		gaps = append(gaps, c.gap)
	}
	return gaps
}
