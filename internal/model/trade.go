package model

import "time"

// Side is the direction of a simulated trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderMarket is the only order type the sandbox executes.
const OrderMarket = "market"

// Fill is the outcome of a simulated trade. Amount is what was executed and may be
// less than Requested when a sell is capped at the held amount.
type Fill struct {
	ID        string    `json:"id"`
	Pair      string    `json:"pair"`
	Side      Side      `json:"side"`
	Requested float64   `json:"requested"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	Value     float64   `json:"value"`
	Time      time.Time `json:"time"`
}

// Capped reports whether fewer units were executed than requested.
func (f Fill) Capped() bool {
	return f.Amount < f.Requested
}
