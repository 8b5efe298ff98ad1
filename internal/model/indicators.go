package model

// SeriesSummary holds statistics computed over the closes of a PriceSeries.
type SeriesSummary struct {
	Pair      string
	Candles   int
	LastClose float64
	High      float64
	Low       float64
	SMA20     float64
	RSI14     float64
	Position  float64 // 0.0 ~ 1.0 within [Low, High]
}
