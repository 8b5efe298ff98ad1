package collector

import (
	"context"
	"fmt"

	"KrakenSandbox/internal/calculator"
	"KrakenSandbox/internal/export"
	"KrakenSandbox/internal/model"
	"KrakenSandbox/internal/recorder"
	"KrakenSandbox/internal/store"

	"github.com/rs/zerolog/log"
)

// Report describes one completed collection run.
type Report struct {
	Summary   model.SeriesSummary
	Fetched   int
	FirstTime int64
	LastTime  int64
	StorePath string
	CSVPath   string
}

// Collector fetches OHLC candles, persists them and optionally exports them as CSV.
type Collector struct {
	Fetcher  Fetcher
	Recorder recorder.Recorder

	StorePath   string
	CSVDir      string
	Interval    int
	Incremental bool
}

// NewCollector creates a new Collector. A nil recorder disables journaling.
func NewCollector(fetcher Fetcher, storePath string, interval int, rec recorder.Recorder) *Collector {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Collector{Fetcher: fetcher, Recorder: rec, StorePath: storePath, Interval: interval}
}

// Collect fetches candles for pair, writes them to the store and, when CSVDir is set,
// exports the full stored series. In incremental mode only candles after the last
// stored one are requested.
func (c *Collector) Collect(ctx context.Context, pair string) (*Report, error) {
	report, err := c.collect(ctx, pair)
	evt := &recorder.CollectionEvent{Pair: pair, Interval: c.Interval, StorePath: c.StorePath}
	if err != nil {
		evt.Err = err.Error()
	} else {
		evt.Candles = report.Fetched
		evt.FirstTime, evt.LastTime = report.FirstTime, report.LastTime
		evt.LastClose = report.Summary.LastClose
		evt.CSVPath = report.CSVPath
	}
	if rerr := c.Recorder.RecordCollection(evt); rerr != nil {
		log.Error().Err(rerr).Str("pair", pair).Msg("record collection")
	}
	return report, err
}

func (c *Collector) collect(ctx context.Context, pair string) (*Report, error) {
	var since *int64
	if c.Incremental {
		stored, err := store.Read(c.StorePath, pair)
		if err != nil {
			return nil, fmt.Errorf("read stored %s: %w", pair, err)
		}
		if last, ok := stored.Last(); ok {
			since = &last.Time
		}
	}

	var interval *int
	if c.Interval > 0 {
		interval = &c.Interval
	}
	series, err := c.Fetcher.OHLC(ctx, pair, interval, since)
	if err != nil {
		return nil, fmt.Errorf("fetch ohlc %s: %w", pair, err)
	}
	if err := store.Write(c.StorePath, series); err != nil {
		return nil, fmt.Errorf("store %s: %w", pair, err)
	}

	full, err := store.Read(c.StorePath, pair)
	if err != nil {
		return nil, fmt.Errorf("read stored %s: %w", pair, err)
	}

	report := &Report{
		Summary:   calculator.Summarize(full),
		Fetched:   series.Len(),
		StorePath: c.StorePath,
	}
	if series.Len() > 0 {
		report.FirstTime = series.Prices[0].Time
		report.LastTime = series.Prices[series.Len()-1].Time
	}

	if c.CSVDir != "" {
		path, err := export.WriteFile(c.CSVDir, full)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", pair, err)
		}
		report.CSVPath = path
	}

	log.Info().
		Str("pair", pair).
		Str("source", c.Fetcher.Name()).
		Int("fetched", report.Fetched).
		Int("stored", full.Len()).
		Msg("collection complete")
	return report, nil
}
