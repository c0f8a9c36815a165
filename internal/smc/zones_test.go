package smc

import (
	"math"
	"testing"

	"SMCAlert/internal/domain/models"
)

func TestClassifyZoneBands(t *testing.T) {
	candles := []models.Candle{
		bar(0, 110, 160, 100, 120),
		bar(1, 120, 150, 110, 130),
	}
	z := ClassifyZone(candles)
	if z.RangeHigh != 160 || z.RangeLow != 100 {
		t.Fatalf("range = [%v, %v], want [100, 160]", z.RangeLow, z.RangeHigh)
	}
	if z.Equilibrium != 130 {
		t.Errorf("equilibrium = %v, want 130", z.Equilibrium)
	}
	if math.Abs(z.PremiumLow-140) > 1e-9 || math.Abs(z.DiscountTop-120) > 1e-9 {
		t.Errorf("bands = [%v, %v], want [120, 140]", z.DiscountTop, z.PremiumLow)
	}

	cases := []struct {
		price float64
		want  models.ZoneName
	}{
		{150, models.ZonePremium},
		{110, models.ZoneDiscount},
		{130, models.ZoneEquilibrium},
	}
	for _, c := range cases {
		if got := z.Classify(c.price); got != c.want {
			t.Errorf("Classify(%v) = %s, want %s", c.price, got, c.want)
		}
	}
}

func TestClassifyZoneFibonacci(t *testing.T) {
	candles := []models.Candle{bar(0, 110, 160, 100, 120)}
	z := ClassifyZone(candles)
	want := map[string]float64{
		"23.6": 160 - 60*0.236,
		"38.2": 160 - 60*0.382,
		"50.0": 130,
		"61.8": 160 - 60*0.618,
		"78.6": 160 - 60*0.786,
	}
	for label, lvl := range want {
		if got, ok := z.Fibonacci[label]; !ok || math.Abs(got-lvl) > 1e-9 {
			t.Errorf("fib %s = %v, want %v", label, got, lvl)
		}
	}
}

func TestKeepNewest(t *testing.T) {
	in := []int{1, 2, 3, 4, 5}
	got := keepNewest(in, 3)
	if len(got) != 3 || got[0] != 3 || got[2] != 5 {
		t.Fatalf("keepNewest = %v, want [3 4 5]", got)
	}
	if got := keepNewest(in, 10); len(got) != 5 {
		t.Errorf("expected unchanged slice, got %v", got)
	}
	if got := keepNewest(in, 0); got != nil {
		t.Errorf("expected nil for n=0, got %v", got)
	}
}
