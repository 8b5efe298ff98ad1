package sandbox

import (
	"errors"
	"fmt"
)

// ErrInvalidAmount is returned for a trade amount that is not a positive finite number.
var ErrInvalidAmount = errors.New("amount must be a positive finite number")

// UnsupportedPairError is returned when a pair is not quoted in the ledger currency.
type UnsupportedPairError struct {
	Pair     string
	Currency string
}

func (e *UnsupportedPairError) Error() string {
	return fmt.Sprintf("pair %s is not quoted in %s", e.Pair, e.Currency)
}

// NoHoldingError is returned when selling a pair the ledger does not hold.
type NoHoldingError struct {
	Pair string
}

func (e *NoHoldingError) Error() string {
	return fmt.Sprintf("no holding for pair %s", e.Pair)
}

// InsufficientFundsError is returned by Buy when overdraft is disabled and the cost
// exceeds the balance.
type InsufficientFundsError struct {
	Needed    float64
	Available float64
	Currency  string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %.2f %s, have %.2f", e.Needed, e.Currency, e.Available)
}
