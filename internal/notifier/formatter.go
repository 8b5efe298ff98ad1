package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"KrakenSandbox/internal/model"
)

// FormatFill formats a simulated trade and the resulting balance.
func FormatFill(fill model.Fill, balance float64, currency string) string {
	var b strings.Builder
	icon := "🟢"
	if fill.Side == model.SideSell {
		icon = "🔴"
	}
	fmt.Fprintf(&b, "%s <b>Sandbox %s</b> | %s\n\n", icon, strings.ToUpper(string(fill.Side)), fill.Pair)
	fmt.Fprintf(&b, "Amount: %g", fill.Amount)
	if fill.Capped() {
		fmt.Fprintf(&b, " (requested %g, capped at holding)", fill.Requested)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Price: %.2f %s\n", fill.Price, currency)
	fmt.Fprintf(&b, "Value: %.2f %s\n", fill.Value, currency)
	fmt.Fprintf(&b, "Balance: %.2f %s\n", balance, currency)
	return b.String()
}

// FormatPortfolio formats the sandbox account. prices values each holding when present.
func FormatPortfolio(state model.LedgerState, prices map[string]float64) string {
	var b strings.Builder
	b.WriteString("📦 <b>Sandbox portfolio</b>\n\n")
	fmt.Fprintf(&b, "Balance: %.2f %s\n", state.Balance, state.Currency)

	if len(state.Holdings) == 0 {
		b.WriteString("Holdings: none\n")
	} else {
		pairs := make([]string, 0, len(state.Holdings))
		for pair := range state.Holdings {
			pairs = append(pairs, pair)
		}
		sort.Strings(pairs)

		total := state.Balance
		b.WriteString("Holdings:\n")
		for _, pair := range pairs {
			amount := state.Holdings[pair]
			if price, ok := prices[pair]; ok {
				value := amount * price
				total += value
				fmt.Fprintf(&b, "  %s: %g (≈ %.2f %s)\n", pair, amount, value, state.Currency)
			} else {
				fmt.Fprintf(&b, "  %s: %g\n", pair, amount)
			}
		}
		if len(prices) > 0 {
			fmt.Fprintf(&b, "Equity: %.2f %s\n", total, state.Currency)
		}
	}
	if !state.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "Updated: %s\n", state.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return b.String()
}

// FormatCollection formats the outcome of a collection run.
func FormatCollection(s model.SeriesSummary, fetched int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>%s</b> | %s\n\n", s.Pair, time.Now().UTC().Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "New candles: %d (stored %d)\n", fetched, s.Candles)
	fmt.Fprintf(&b, "Last close: %.2f\n", s.LastClose)
	fmt.Fprintf(&b, "Range: %.2f – %.2f (position %.0f%%)\n", s.Low, s.High, s.Position*100)
	fmt.Fprintf(&b, "SMA20: %.2f | RSI14: %.0f\n", s.SMA20, s.RSI14)
	return b.String()
}

// FormatStatus formats the exchange system status.
func FormatStatus(st model.SystemStatus) string {
	status := st.Status
	if status == "" {
		status = "reachable"
	}
	if st.Timestamp.IsZero() {
		return fmt.Sprintf("🛰 Kraken: <b>%s</b>", html.EscapeString(status))
	}
	return fmt.Sprintf("🛰 Kraken: <b>%s</b> (%s)", html.EscapeString(status), st.Timestamp.UTC().Format(time.RFC3339))
}

// FormatError formats a failed operation.
func FormatError(op string, err error) string {
	return fmt.Sprintf("❌ %s failed: %s", op, html.EscapeString(err.Error()))
}
