package model

import "time"

// PricePoint is a single OHLC candle.
type PricePoint struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Vwap   float64 `json:"vwap"`
	Volume float64 `json:"volume"`
	Count  uint32  `json:"count"`
}

// PriceSeries holds the candles of one trading pair, ordered by Time as the exchange returned them.
type PriceSeries struct {
	Pair   string       `json:"pair"`
	Prices []PricePoint `json:"prices"`
}

// Len returns the number of candles in the series.
func (s PriceSeries) Len() int { return len(s.Prices) }

// Last returns the most recent candle and false if the series is empty.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s.Prices) == 0 {
		return PricePoint{}, false
	}
	return s.Prices[len(s.Prices)-1], true
}

// SystemStatus is the exchange's self-reported operating state.
type SystemStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
