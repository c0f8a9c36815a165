package sentiment

import (
	"fmt"
	"math"
	"time"

	"SMCAlert/internal/domain/models"
)

// Sub-score weights. The sub-scores themselves are computed upstream; the
// composer only blends them.
const (
	weightFearGreed  = 0.25
	weightVIX        = 0.20
	weightBreadth    = 0.15
	weightSector     = 0.15
	weightMA         = 0.15
	weightYieldCurve = 0.10

	vixElevated = 25 // raw VIX level treated as stressed
)

// Composer blends macro sub-scores into one market-wide read. Stateless;
// safe for concurrent use.
type Composer struct{}

func NewComposer() *Composer { return &Composer{} }

// Compose blends the weighted sub-scores, maps the result onto the five
// action buckets, and attaches narrative fragments conditioned on the raw
// readings.
func (c *Composer) Compose(in models.SentimentInputs, now time.Time) models.SentimentScore {
	value := weightFearGreed*in.FearGreedScore +
		weightVIX*in.VIXScore +
		weightBreadth*in.BreadthScore +
		weightSector*in.SectorScore +
		weightMA*in.MAScore +
		weightYieldCurve*in.YieldCurveScore

	score := int(math.Round(math.Max(0, math.Min(value, 100))))

	bucket, action := classify(score)
	return models.SentimentScore{
		Value:          score,
		Bucket:         bucket,
		Recommendation: action,
		Narrative:      narrative(score, bucket, in),
		Timestamp:      now,
	}
}

func classify(score int) (string, models.SentimentAction) {
	switch {
	case score >= 75:
		return "extreme fear / contrarian opportunity", models.ActionBuy
	case score >= 60:
		return "bullish momentum", models.ActionBuy
	case score >= 45:
		return "consolidation", models.ActionHold
	case score >= 30:
		return "caution", models.ActionAvoid
	default:
		return "high risk", models.ActionAvoid
	}
}

func narrative(score int, bucket string, in models.SentimentInputs) []string {
	out := []string{fmt.Sprintf("composite score %d: %s", score, bucket)}

	if in.VIXValue >= vixElevated {
		out = append(out, fmt.Sprintf("volatility elevated (VIX %.1f), size positions down", in.VIXValue))
	} else if in.VIXValue > 0 {
		out = append(out, fmt.Sprintf("volatility contained (VIX %.1f)", in.VIXValue))
	}

	switch {
	case in.FearGreedValue > 0 && in.FearGreedValue <= 25:
		out = append(out, "crowd positioning at extreme fear, historically a contrarian long setup")
	case in.FearGreedValue >= 75:
		out = append(out, "crowd positioning greedy, upside likely crowded")
	}

	if in.BreadthPct > 0 {
		if in.BreadthPct >= 60 {
			out = append(out, fmt.Sprintf("breadth confirms (%.0f%% of members above their 50d average)", in.BreadthPct))
		} else if in.BreadthPct <= 40 {
			out = append(out, fmt.Sprintf("breadth is thin (%.0f%% above 50d average), rallies lack participation", in.BreadthPct))
		}
	}
	return out
}
