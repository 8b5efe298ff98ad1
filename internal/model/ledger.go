package model

import "time"

// LedgerState is the persisted form of a sandbox account.
type LedgerState struct {
	Balance   float64            `json:"balance"`
	Currency  string             `json:"currency"`
	Holdings  map[string]float64 `json:"holdings"`
	UpdatedAt time.Time          `json:"updated_at"`
}
