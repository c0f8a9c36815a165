package smc

import (
	"math"

	"SMCAlert/internal/domain/models"
)

// mixedRatioCut is the decisiveness threshold: below it the two sides are too
// close to call and the verdict is Mixed.
const mixedRatioCut = 0.3

// baseWeights fix each alert kind's vote before quality adjustment.
var baseWeights = map[models.AlertKind]float64{
	models.AlertEntry: 3,
	models.AlertCHoCH: 2.5,
	models.AlertNear:  2,
	models.AlertBOS:   1.5,
	models.AlertFVG:   1,
	models.AlertZone:  0.5,
}

// Aggregate collapses one symbol's alert list into a directional verdict with
// confidence. Each alert contributes
//
//	baseWeight * (1 + quality/100 + 0.2*volumeConfirmed + 0.2*trendAligned)
//
// to its side. With diff = |buy-sell| and ratio = diff/total, an empty board
// holds, ratio under 0.3 is mixed, and otherwise the heavier side wins with
// confidence round(50 + ratio*50). The function is pure: the same alert list
// always yields the same result.
func Aggregate(alerts []models.Alert) models.ConsensusResult {
	var buyScore, sellScore float64
	var buyCount, sellCount int

	for _, a := range alerts {
		w, ok := baseWeights[a.Kind]
		if !ok {
			continue
		}
		mult := 1 + float64(a.QualityScore)/100
		if a.VolumeConfirmed {
			mult += 0.2
		}
		if a.TrendAligned {
			mult += 0.2
		}
		contribution := w * mult

		if a.Direction == models.AlertBuy {
			buyScore += contribution
			buyCount++
		} else {
			sellScore += contribution
			sellCount++
		}
	}

	res := models.ConsensusResult{
		BuySignalCount:  buyCount,
		SellSignalCount: sellCount,
		BuyScore:        buyScore,
		SellScore:       sellScore,
	}

	total := buyScore + sellScore
	if total == 0 {
		res.Verdict = models.VerdictHold
		res.Confidence = 0
		return res
	}

	ratio := math.Abs(buyScore-sellScore) / total
	res.Confidence = int(math.Round(50 + ratio*50))

	switch {
	case ratio < mixedRatioCut:
		res.Verdict = models.VerdictMixed
	case buyScore > sellScore:
		res.Verdict = models.VerdictBuy
	default:
		res.Verdict = models.VerdictSell
	}
	return res
}
