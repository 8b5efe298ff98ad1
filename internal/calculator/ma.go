package calculator

import (
	"errors"

	"KrakenSandbox/internal/model"
)

var (
	errPeriod   = errors.New("period must be positive")
	errTooShort = errors.New("not enough candles")
)

// SMA computes the simple moving average of the last period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errPeriod
	}
	if len(values) < period {
		return 0, errTooShort
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), nil
}

// CloseSMA is the SMA of candle closes.
func CloseSMA(points []model.PricePoint, period int) (float64, error) {
	return SMA(Closes(points), period)
}

// Closes extracts the close of every candle in order.
func Closes(points []model.PricePoint) []float64 {
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}
	return closes
}
