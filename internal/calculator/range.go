package calculator

import (
	"errors"
	"math"

	"KrakenSandbox/internal/model"
)

// Range returns the highest high and lowest low over the last lookback candles.
// A lookback of zero or more than the series length covers the whole series.
func Range(points []model.PricePoint, lookback int) (high, low float64, err error) {
	if len(points) == 0 {
		return 0, 0, errTooShort
	}
	start := 0
	if lookback > 0 && lookback < len(points) {
		start = len(points) - lookback
	}
	high, low = math.Inf(-1), math.Inf(1)
	for _, p := range points[start:] {
		high = math.Max(high, p.High)
		low = math.Min(low, p.Low)
	}
	return high, low, nil
}

// Position returns where price sits within [low, high], clamped to 0.0~1.0.
func Position(price, high, low float64) (float64, error) {
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	if high == low {
		return 0.5, nil
	}
	return math.Min(1, math.Max(0, (price-low)/(high-low))), nil
}
