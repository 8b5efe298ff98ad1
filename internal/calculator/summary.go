package calculator

import (
	"KrakenSandbox/internal/model"

	"github.com/rs/zerolog/log"
)

// Summarize computes range, SMA20 and RSI14 over a series. Statistics that need more
// candles than available fall back to the last close (SMA) or 50 (RSI).
func Summarize(series model.PriceSeries) model.SeriesSummary {
	sum := model.SeriesSummary{Pair: series.Pair, Candles: series.Len()}
	last, ok := series.Last()
	if !ok {
		return sum
	}
	sum.LastClose = last.Close

	sum.High, sum.Low, _ = Range(series.Prices, 0)
	if pos, err := Position(last.Close, sum.High, sum.Low); err != nil {
		log.Warn().Err(err).Str("pair", series.Pair).Msg("range position unavailable")
		sum.Position = 0.5
	} else {
		sum.Position = pos
	}

	if sma, err := CloseSMA(series.Prices, 20); err != nil {
		log.Debug().Err(err).Str("pair", series.Pair).Msg("SMA20 unavailable, using last close")
		sum.SMA20 = last.Close
	} else {
		sum.SMA20 = sma
	}

	sum.RSI14, _ = RSI(series.Prices, 14)
	return sum
}
