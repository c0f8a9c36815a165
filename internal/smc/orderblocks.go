package smc

import (
	"math"

	"SMCAlert/internal/domain/models"
)

const (
	// MinWindow is the smallest candle window any detector accepts.
	MinWindow = 20

	obMoveThreshold = 0.01 // continuation move must exceed 1%
	obVolumeGate    = 0.8  // confirmation volume vs window average
	maxOrderBlocks  = 10
)

// DetectOrderBlocks scans interior candles for reversal-then-continuation
// pairs. A bullish block forms when a down bar is followed by an up bar whose
// close clears the down bar's low by more than 1% on at least 0.8x average
// volume; the block range is [low, open] of the down bar. Bearish is the
// mirror over [open, high]. Blocks are returned ascending by origin time,
// newest 10 only.
func DetectOrderBlocks(candles []models.Candle) []models.OrderBlock {
	if len(candles) < MinWindow {
		return nil
	}
	avgVol := averageVolume(candles)

	type candidate struct {
		block models.OrderBlock
		at    int // index of the confirmation candle
	}
	var found []candidate
	for i := 2; i < len(candles)-1; i++ {
		prev, cur := candles[i-1], candles[i]

		if !prev.Bullish() && cur.Bullish() && prev.Low > 0 {
			move := (cur.Close - prev.Low) / prev.Low
			if move > obMoveThreshold && cur.Volume > obVolumeGate*avgVol {
				found = append(found, candidate{at: i, block: models.OrderBlock{
					Direction:       models.Bullish,
					Top:             prev.Open,
					Bottom:          prev.Low,
					OriginTimestamp: prev.Bucket,
					OriginVolume:    cur.Volume,
					Strength:        math.Min(move*100, 100),
				}})
			}
		}

		if prev.Bullish() && !cur.Bullish() && prev.High > 0 {
			move := (prev.High - cur.Close) / prev.High
			if move > obMoveThreshold && cur.Volume > obVolumeGate*avgVol {
				found = append(found, candidate{at: i, block: models.OrderBlock{
					Direction:       models.Bearish,
					Top:             prev.High,
					Bottom:          prev.Open,
					OriginTimestamp: prev.Bucket,
					OriginVolume:    cur.Volume,
					Strength:        math.Min(move*100, 100),
				}})
			}
		}
	}

	found = keepNewest(found, maxOrderBlocks)

	blocks := make([]models.OrderBlock, 0, len(found))
	for _, c := range found {
		// A re-entry after the formation pair marks the block tested.
		// The flag is set at most once per block per pass.
		for j := c.at + 1; j < len(candles); j++ {
			if candles[j].Low <= c.block.Top && candles[j].High >= c.block.Bottom {
				c.block.Tested = true
				break
			}
		}
		blocks = append(blocks, c.block)
	}
	return blocks
}

func averageVolume(candles []models.Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range candles {
		sum += c.Volume
	}
	return sum / float64(len(candles))
}
