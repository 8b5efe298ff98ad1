package sandbox

import (
	"context"

	"KrakenSandbox/internal/model"

	"github.com/rs/zerolog/log"
)

// Journal records executed fills.
type Journal interface {
	RecordTrade(fill *model.Fill) error
}

// Journaled wraps a Trader and records every successful fill. A journal failure is
// logged and does not undo the trade.
type Journaled struct {
	Trader
	journal Journal
}

// NewJournaled decorates t with journal.
func NewJournaled(t Trader, journal Journal) *Journaled {
	return &Journaled{Trader: t, journal: journal}
}

func (j *Journaled) Buy(ctx context.Context, pair string, amount float64) (model.Fill, error) {
	fill, err := j.Trader.Buy(ctx, pair, amount)
	if err == nil {
		j.record(&fill)
	}
	return fill, err
}

func (j *Journaled) Sell(ctx context.Context, pair string, amount float64) (model.Fill, error) {
	fill, err := j.Trader.Sell(ctx, pair, amount)
	if err == nil {
		j.record(&fill)
	}
	return fill, err
}

func (j *Journaled) record(fill *model.Fill) {
	if err := j.journal.RecordTrade(fill); err != nil {
		log.Error().Err(err).Str("pair", fill.Pair).Str("fill", fill.ID).Msg("failed to journal trade")
	}
}
