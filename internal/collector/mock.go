package collector

import (
	"context"
	"sync"
	"time"

	"KrakenSandbox/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	mu     sync.Mutex
	Prices map[string]float64
	Series map[string]model.PriceSeries
	Err    error

	// Since records the since argument of every OHLC call, nil when omitted.
	Since []*int64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Status(_ context.Context) (model.SystemStatus, error) {
	if m.Err != nil {
		return model.SystemStatus{}, m.Err
	}
	return model.SystemStatus{Status: "online", Timestamp: time.Now().UTC()}, nil
}

func (m *MockFetcher) OHLC(_ context.Context, pair string, interval *int, since *int64) (model.PriceSeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Since = append(m.Since, since)
	if m.Err != nil {
		return model.PriceSeries{}, m.Err
	}
	if s, ok := m.Series[pair]; ok {
		return model.PriceSeries{Pair: pair, Prices: filterSince(s.Prices, since)}, nil
	}
	step := 60
	if interval != nil {
		step = *interval
	}
	return model.PriceSeries{Pair: pair, Prices: generateMockCandles(m.price(pair), step, 30)}, nil
}

func (m *MockFetcher) LatestPrice(_ context.Context, pair string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return m.price(pair), nil
}

// SetPrice changes the price returned for pair.
func (m *MockFetcher) SetPrice(pair string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Prices == nil {
		m.Prices = map[string]float64{}
	}
	m.Prices[pair] = price
}

func (m *MockFetcher) price(pair string) float64 {
	if p, ok := m.Prices[pair]; ok {
		return p
	}
	return 100
}

func filterSince(points []model.PricePoint, since *int64) []model.PricePoint {
	if since == nil {
		return points
	}
	var out []model.PricePoint
	for _, p := range points {
		if p.Time > *since {
			out = append(out, p)
		}
	}
	return out
}

func generateMockCandles(basePrice float64, stepMinutes, count int) []model.PricePoint {
	end := time.Now().Truncate(time.Duration(stepMinutes) * time.Minute).Unix()
	pts := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		pts[i] = model.PricePoint{
			Time:   end - int64((count-1-i)*stepMinutes*60),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Vwap:   p,
			Volume: 12.5,
			Count:  42,
		}
	}
	return pts
}
