package calculator

import "KrakenSandbox/internal/model"

// RSI computes the Wilder-smoothed relative strength index of candle closes.
// It returns 50 when there are fewer than period+1 candles.
func RSI(points []model.PricePoint, period int) (float64, error) {
	if period <= 0 {
		return 0, errPeriod
	}
	if len(points) < period+1 {
		return 50, nil
	}
	closes := Closes(points)
	n := float64(period)

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		gain, loss := split(closes[i] - closes[i-1])
		avgGain += gain
		avgLoss += loss
	}
	avgGain /= n
	avgLoss /= n

	for i := period + 1; i < len(closes); i++ {
		gain, loss := split(closes[i] - closes[i-1])
		avgGain = (avgGain*(n-1) + gain) / n
		avgLoss = (avgLoss*(n-1) + loss) / n
	}

	if avgLoss == 0 {
		return 100, nil
	}
	return 100 - 100/(1+avgGain/avgLoss), nil
}

func split(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}
