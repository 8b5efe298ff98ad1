package collector

import (
	"context"

	"KrakenSandbox/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	Status(ctx context.Context) (model.SystemStatus, error)
	OHLC(ctx context.Context, pair string, interval *int, since *int64) (model.PriceSeries, error)
	LatestPrice(ctx context.Context, pair string) (float64, error)
	Name() string
}
