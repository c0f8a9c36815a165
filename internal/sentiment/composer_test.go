package sentiment

import (
	"testing"
	"time"

	"SMCAlert/internal/domain/models"
)

var now = time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)

func uniform(score float64) models.SentimentInputs {
	return models.SentimentInputs{
		FearGreedScore:  score,
		VIXScore:        score,
		BreadthScore:    score,
		SectorScore:     score,
		MAScore:         score,
		YieldCurveScore: score,
	}
}

func TestComposeBucketBoundaries(t *testing.T) {
	cases := []struct {
		score  float64
		bucket string
		action models.SentimentAction
	}{
		{80, "extreme fear / contrarian opportunity", models.ActionBuy},
		{75, "extreme fear / contrarian opportunity", models.ActionBuy},
		{74, "bullish momentum", models.ActionBuy},
		{60, "bullish momentum", models.ActionBuy},
		{59, "consolidation", models.ActionHold},
		{45, "consolidation", models.ActionHold},
		{44, "caution", models.ActionAvoid},
		{30, "caution", models.ActionAvoid},
		{29, "high risk", models.ActionAvoid},
		{0, "high risk", models.ActionAvoid},
	}
	c := NewComposer()
	for _, tc := range cases {
		got := c.Compose(uniform(tc.score), now)
		// uniform inputs with weights summing to 1 reproduce the score
		if got.Value != int(tc.score) {
			t.Errorf("Compose(%v).Value = %d", tc.score, got.Value)
		}
		if got.Bucket != tc.bucket || got.Recommendation != tc.action {
			t.Errorf("score %v: got %q/%s, want %q/%s",
				tc.score, got.Bucket, got.Recommendation, tc.bucket, tc.action)
		}
	}
}

func TestComposeWeighting(t *testing.T) {
	in := models.SentimentInputs{FearGreedScore: 100} // 25% weight alone
	got := NewComposer().Compose(in, now)
	if got.Value != 25 {
		t.Errorf("value = %d, want 25", got.Value)
	}
}

func TestComposeNarrativeVIX(t *testing.T) {
	in := uniform(70)
	in.VIXValue = 32
	got := NewComposer().Compose(in, now)
	found := false
	for _, line := range got.Narrative {
		if line == "volatility elevated (VIX 32.0), size positions down" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing elevated-VIX fragment in %v", got.Narrative)
	}
}

func TestComposeNarrativeCorroboration(t *testing.T) {
	in := uniform(80)
	in.FearGreedValue = 15
	in.BreadthPct = 35
	got := NewComposer().Compose(in, now)
	if len(got.Narrative) < 3 {
		t.Fatalf("expected fear and breadth fragments, got %v", got.Narrative)
	}
}
