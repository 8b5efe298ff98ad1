package calculator

import (
	"testing"

	"KrakenSandbox/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candles(closes ...float64) []model.PricePoint {
	pts := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		pts[i] = model.PricePoint{Time: int64(i + 1), Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	return pts
}

func TestSMA(t *testing.T) {
	v, err := SMA([]float64{1, 2, 3, 4, 5}, 2)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)

	_, err = SMA([]float64{1}, 2)
	assert.ErrorIs(t, err, errTooShort)
	_, err = SMA([]float64{1}, 0)
	assert.ErrorIs(t, err, errPeriod)
}

func TestRange(t *testing.T) {
	pts := candles(10, 20, 5, 8)
	high, low, err := Range(pts, 0)
	require.NoError(t, err)
	assert.Equal(t, 21.0, high)
	assert.Equal(t, 4.0, low)

	high, low, err = Range(pts, 2)
	require.NoError(t, err)
	assert.Equal(t, 9.0, high)
	assert.Equal(t, 4.0, low)

	_, _, err = Range(nil, 0)
	assert.Error(t, err)
}

func TestPosition(t *testing.T) {
	pos, err := Position(15, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 0.5, pos)

	pos, _ = Position(25, 20, 10)
	assert.Equal(t, 1.0, pos)
	pos, _ = Position(5, 20, 10)
	assert.Equal(t, 0.0, pos)
	pos, _ = Position(5, 10, 10)
	assert.Equal(t, 0.5, pos)

	_, err = Position(5, 1, 10)
	assert.Error(t, err)
}

func TestRSI(t *testing.T) {
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(i + 1)
	}
	rsi, err := RSI(candles(rising...), 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rsi)

	rsi, err = RSI(candles(1, 2, 3), 14)
	require.NoError(t, err)
	assert.Equal(t, 50.0, rsi, "too few candles")

	alternating := candles(10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10)
	rsi, err = RSI(alternating, 14)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, rsi, 0.001)
}

func TestSummarize(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	sum := Summarize(model.PriceSeries{Pair: "XXBTZEUR", Prices: candles(closes...)})

	assert.Equal(t, "XXBTZEUR", sum.Pair)
	assert.Equal(t, 30, sum.Candles)
	assert.Equal(t, 129.0, sum.LastClose)
	assert.Equal(t, 130.0, sum.High)
	assert.Equal(t, 99.0, sum.Low)
	assert.InDelta(t, 119.5, sum.SMA20, 1e-9)
	assert.Equal(t, 100.0, sum.RSI14)
	assert.InDelta(t, 30.0/31.0, sum.Position, 1e-9)
}

func TestSummarize_ShortAndEmpty(t *testing.T) {
	sum := Summarize(model.PriceSeries{Pair: "X", Prices: candles(5, 6)})
	assert.Equal(t, 6.0, sum.SMA20, "falls back to last close")
	assert.Equal(t, 50.0, sum.RSI14)

	empty := Summarize(model.PriceSeries{Pair: "X"})
	assert.Zero(t, empty.Candles)
	assert.Zero(t, empty.LastClose)
}
