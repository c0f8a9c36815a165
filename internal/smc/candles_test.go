package smc

import (
	"time"

	"SMCAlert/internal/domain/models"
)

var t0 = time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

// flatCandles builds n one-minute doji bars around price with unit volume.
// Dojis never satisfy the reversal-pair test, so fixtures stay inert until a
// test mutates specific bars.
func flatCandles(n int, price float64) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{
			Bucket: t0.Add(time.Duration(i) * time.Minute),
			Symbol: "AAPL",
			Open:   price,
			High:   price + 0.5,
			Low:    price - 0.5,
			Close:  price,
			Volume: 1000,
		}
	}
	return out
}

// plantBullishBlock rewrites bars i-1 and i into a down bar followed by a
// confirming up bar, producing a bullish order block [9.5, 10] when the
// surrounding fixture trades near 10. The neighbors on both sides get volume
// below the gate so no spurious candidate forms against the fixture bars.
func plantBullishBlock(candles []models.Candle, i int) {
	candles[i-1].Open = 10
	candles[i-1].High = 10.05
	candles[i-1].Low = 9.5
	candles[i-1].Close = 9.6
	candles[i-1].Volume = 100
	candles[i].Open = 9.6
	candles[i].High = 10.25
	candles[i].Low = 9.55
	candles[i].Close = 10.2
	candles[i].Volume = 2000
	if i+1 < len(candles) {
		candles[i+1].Volume = 100
	}
}
