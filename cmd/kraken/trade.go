package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"KrakenSandbox/internal/model"
	"KrakenSandbox/internal/sandbox"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var tradesLimit int

var buyCmd = &cobra.Command{
	Use:   "buy PAIR AMOUNT",
	Short: "Simulate buying AMOUNT of PAIR at the last trade price",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrade(cmd, args, func(t sandbox.Trader) tradeFunc { return t.Buy })
	},
}

var sellCmd = &cobra.Command{
	Use:   "sell PAIR AMOUNT",
	Short: "Simulate selling AMOUNT of PAIR at the last trade price",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrade(cmd, args, func(t sandbox.Trader) tradeFunc { return t.Sell })
	},
}

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show the sandbox balance and holdings valued at last trade prices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		journal := openJournal()
		defer journal.Close()
		trader, err := openTrader(client, journal)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "balance: %.2f %s\n", trader.Balance(), trader.Currency())
		holdings := trader.Holdings()
		pairs := make([]string, 0, len(holdings))
		for pair := range holdings {
			pairs = append(pairs, pair)
		}
		sort.Strings(pairs)

		equity := trader.Balance()
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, pair := range pairs {
			price, err := client.LatestPrice(cmd.Context(), pair)
			if err != nil {
				log.Warn().Err(err).Str("pair", pair).Msg("valuation")
				fmt.Fprintf(w, "%s\t%g\t?\n", pair, holdings[pair])
				continue
			}
			value := holdings[pair] * price
			equity += value
			fmt.Fprintf(w, "%s\t%g\t%.2f %s\n", pair, holdings[pair], value, trader.Currency())
		}
		w.Flush()
		fmt.Fprintf(out, "equity:  %.2f %s\n", equity, trader.Currency())
		return nil
	},
}

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List recent journaled sandbox trades",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		journal := openJournal()
		defer journal.Close()
		fills, err := journal.RecentTrades(tradesLimit)
		if err != nil {
			return err
		}
		printFills(cmd.OutOrStdout(), fills)
		return nil
	},
}

func init() {
	tradesCmd.Flags().IntVarP(&tradesLimit, "limit", "n", 20, "number of trades")
	rootCmd.AddCommand(buyCmd, sellCmd, portfolioCmd, tradesCmd)
}

type tradeFunc func(ctx context.Context, pair string, amount float64) (model.Fill, error)

func runTrade(cmd *cobra.Command, args []string, pick func(sandbox.Trader) tradeFunc) error {
	pair := strings.ToUpper(args[0])
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}

	journal := openJournal()
	defer journal.Close()
	trader, err := openTrader(newClient(), journal)
	if err != nil {
		return err
	}

	fill, err := pick(trader)(cmd.Context(), pair, amount.InexactFloat64())
	if err != nil {
		return err
	}
	printFills(cmd.OutOrStdout(), []model.Fill{fill})
	fmt.Fprintf(cmd.OutOrStdout(), "balance: %.2f %s\n", trader.Balance(), trader.Currency())
	return nil
}

func printFills(out io.Writer, fills []model.Fill) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "time\tside\tpair\tamount\tprice\tvalue\tnote")
	for _, f := range fills {
		note := ""
		if f.Capped() {
			note = fmt.Sprintf("requested %g", f.Requested)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%.2f\t%.2f\t%s\n",
			f.Time.Format("2006-01-02 15:04:05"), f.Side, f.Pair, f.Amount, f.Price, f.Value, note)
	}
	w.Flush()
}
