package sandbox

import (
	"context"
	"fmt"
	"maps"
	"math"
	"strings"
	"sync"
	"time"

	"KrakenSandbox/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// PriceSource supplies the price a simulated trade executes at.
type PriceSource interface {
	LatestPrice(ctx context.Context, pair string) (float64, error)
}

// Trader is the capability set shared by the sandbox and any live account.
type Trader interface {
	Buy(ctx context.Context, pair string, amount float64) (model.Fill, error)
	Sell(ctx context.Context, pair string, amount float64) (model.Fill, error)
	Balance() float64
	Holdings() map[string]float64
	Currency() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithOverdraft controls whether a buy may drive the balance negative. Allowed by default.
func WithOverdraft(allow bool) Option {
	return func(l *Ledger) { l.allowOverdraft = allow }
}

// WithStateFile persists the ledger to path after every trade and resumes from it on creation.
func WithStateFile(path string) Option {
	return func(l *Ledger) { l.statePath = path }
}

// WithClock overrides the time source used to stamp fills.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// Ledger is a simulated fiat account with per-pair crypto holdings. Trades execute
// instantly at the latest observed trade price.
type Ledger struct {
	prices PriceSource

	mu       sync.Mutex
	balance  float64
	currency string
	holdings map[string]float64

	allowOverdraft bool
	statePath      string
	now            func() time.Time
}

// NewLedger creates a ledger holding balance in currency. With a state file whose
// account already exists, the saved balance and holdings replace the initial balance.
func NewLedger(prices PriceSource, balance float64, currency string, opts ...Option) (*Ledger, error) {
	currency = strings.ToUpper(currency)
	if err := validate.Var(currency, "len=3,alpha"); err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", currency, err)
	}
	l := &Ledger{
		prices:         prices,
		balance:        balance,
		currency:       currency,
		holdings:       map[string]float64{},
		allowOverdraft: true,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.statePath == "" {
		return l, nil
	}

	state, err := LoadState(l.statePath)
	if err != nil {
		return nil, err
	}
	if state.Currency != "" {
		if err := l.Restore(*state); err != nil {
			return nil, err
		}
		log.Debug().Str("path", l.statePath).Float64("balance", l.balance).Msg("sandbox state resumed")
	}
	if err := l.save(); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}
	return l, nil
}

// Buy debits price*amount from the balance and credits amount to the pair's holding.
// Pairs are upper-cased, so holdings are keyed case-insensitively.
func (l *Ledger) Buy(ctx context.Context, pair string, amount float64) (model.Fill, error) {
	pair = strings.ToUpper(pair)
	if err := l.checkTrade(pair, amount); err != nil {
		return model.Fill{}, err
	}
	price, err := l.prices.LatestPrice(ctx, pair)
	if err != nil {
		return model.Fill{}, fmt.Errorf("price %s: %w", pair, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cost := price * amount
	if !l.allowOverdraft && cost > l.balance {
		return model.Fill{}, &InsufficientFundsError{Needed: cost, Available: l.balance, Currency: l.currency}
	}
	l.balance -= cost
	l.holdings[pair] += amount
	l.persist()

	return l.fill(pair, model.SideBuy, amount, amount, price), nil
}

// Sell credits min(held, amount)*price to the balance. Selling more than is held sells
// the whole holding; the fill reports both the requested and the executed amount.
func (l *Ledger) Sell(ctx context.Context, pair string, amount float64) (model.Fill, error) {
	pair = strings.ToUpper(pair)
	if err := l.checkTrade(pair, amount); err != nil {
		return model.Fill{}, err
	}
	if !l.holds(pair) {
		return model.Fill{}, &NoHoldingError{Pair: pair}
	}
	price, err := l.prices.LatestPrice(ctx, pair)
	if err != nil {
		return model.Fill{}, fmt.Errorf("price %s: %w", pair, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// The holding may have been sold while the price was fetched.
	held, ok := l.holdings[pair]
	if !ok {
		return model.Fill{}, &NoHoldingError{Pair: pair}
	}
	sold := math.Min(held, amount)
	l.balance += sold * price
	delete(l.holdings, pair)
	if rest := held - sold; rest > 0 {
		l.holdings[pair] = rest
	}
	l.persist()

	return l.fill(pair, model.SideSell, amount, sold, price), nil
}

// Balance returns the fiat balance.
func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Currency returns the fiat currency code.
func (l *Ledger) Currency() string { return l.currency }

// Holdings returns a copy of the held amounts by pair.
func (l *Ledger) Holdings() map[string]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.holdings)
}

// State returns a snapshot of the account.
func (l *Ledger) State() model.LedgerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// Restore replaces balance and holdings with a saved state of the same currency.
// Non-positive holdings are dropped.
func (l *Ledger) Restore(state model.LedgerState) error {
	if !strings.EqualFold(state.Currency, l.currency) {
		return fmt.Errorf("state currency %s does not match ledger currency %s", state.Currency, l.currency)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance = state.Balance
	l.holdings = make(map[string]float64, len(state.Holdings))
	for pair, amount := range state.Holdings {
		if amount > 0 {
			l.holdings[strings.ToUpper(pair)] += amount
		}
	}
	return nil
}

func (l *Ledger) checkTrade(pair string, amount float64) error {
	if len(pair) < 3 || pair[len(pair)-3:] != l.currency {
		return &UnsupportedPairError{Pair: pair, Currency: l.currency}
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return nil
}

func (l *Ledger) holds(pair string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.holdings[pair]
	return ok
}

func (l *Ledger) fill(pair string, side model.Side, requested, amount, price float64) model.Fill {
	return model.Fill{
		ID:        uuid.NewString(),
		Pair:      pair,
		Side:      side,
		Requested: requested,
		Amount:    amount,
		Price:     price,
		Value:     amount * price,
		Time:      l.now(),
	}
}

func (l *Ledger) snapshot() model.LedgerState {
	return model.LedgerState{
		Balance:  l.balance,
		Currency: l.currency,
		Holdings: maps.Clone(l.holdings),
	}
}

// persist is called with mu held.
func (l *Ledger) persist() {
	if l.statePath == "" {
		return
	}
	state := l.snapshot()
	if err := SaveState(l.statePath, &state); err != nil {
		log.Error().Err(err).Str("path", l.statePath).Msg("failed to save sandbox state")
	}
}

func (l *Ledger) save() error {
	if l.statePath == "" {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	state := l.snapshot()
	return SaveState(l.statePath, &state)
}
