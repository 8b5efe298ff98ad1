package recorder

import "KrakenSandbox/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTrade(_ *model.Fill) error           { return nil }
func (n *NoopRecorder) RecordCollection(_ *CollectionEvent) error { return nil }
func (n *NoopRecorder) RecentTrades(_ int) ([]model.Fill, error)  { return nil, nil }
func (n *NoopRecorder) Close() error                              { return nil }
