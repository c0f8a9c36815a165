package smc

import (
	"SMCAlert/internal/domain/models"
)

const maxStructureBreaks = 5

// DetectStructureBreaks runs a state machine over two running extremes seeded
// from the first candle. A close beyond an extreme emits a break event at the
// old level, then resets that extreme to the breaking candle's high/low. Both
// extremes also track the running max/min every bar.
//
// Classification is bias-aware: the first break against the prevailing bias is
// a CHoCH and flips the bias; any break continuing the bias is a BOS. A break
// from a neutral bias counts as BOS and establishes the bias.
func DetectStructureBreaks(candles []models.Candle) []models.StructureBreakEvent {
	if len(candles) < 2 {
		return nil
	}

	swingHigh := candles[0].High
	swingLow := candles[0].Low
	bias := models.TrendNeutral

	var events []models.StructureBreakEvent
	for _, c := range candles[1:] {
		if c.Close > swingHigh {
			kind := models.BreakBOS
			if bias == models.TrendDown {
				kind = models.BreakCHoCH
			}
			bias = models.TrendUp
			events = append(events, models.StructureBreakEvent{
				Kind:      kind,
				Direction: models.Bullish,
				Level:     swingHigh,
				Timestamp: c.Bucket,
			})
			swingHigh = c.High
		}
		if c.Close < swingLow {
			kind := models.BreakBOS
			if bias == models.TrendUp {
				kind = models.BreakCHoCH
			}
			bias = models.TrendDown
			events = append(events, models.StructureBreakEvent{
				Kind:      kind,
				Direction: models.Bearish,
				Level:     swingLow,
				Timestamp: c.Bucket,
			})
			swingLow = c.Low
		}

		if c.High > swingHigh {
			swingHigh = c.High
		}
		if c.Low < swingLow {
			swingLow = c.Low
		}
	}
	return keepNewest(events, maxStructureBreaks)
}
