package recorder

import "KrakenSandbox/internal/model"

// CollectionEvent records one OHLC collection run for a pair.
type CollectionEvent struct {
	Pair      string
	Interval  int
	Candles   int
	FirstTime int64
	LastTime  int64
	LastClose float64
	StorePath string
	CSVPath   string
	Err       string // empty on success
}

// Recorder journals sandbox fills and collection runs for later analysis.
type Recorder interface {
	RecordTrade(fill *model.Fill) error
	RecordCollection(evt *CollectionEvent) error
	RecentTrades(limit int) ([]model.Fill, error)
	Close() error
}
