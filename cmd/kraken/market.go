package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"KrakenSandbox/internal/calculator"
	"KrakenSandbox/internal/export"
	"KrakenSandbox/internal/model"
	"KrakenSandbox/internal/store"

	"github.com/spf13/cobra"
)

var (
	ohlcInterval int
	ohlcSince    int64
	ohlcSave     bool
	csvDir       string
	showRows     int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the exchange is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newClient().Status(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "status: %s\n", valueOr(st.Status, "reachable"))
		if !st.Timestamp.IsZero() {
			fmt.Fprintf(out, "time:   %s\n", st.Timestamp.UTC().Format(time.RFC3339))
		}
		return nil
	},
}

var priceCmd = &cobra.Command{
	Use:   "price PAIR",
	Short: "Print the last trade price of a pair",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pair := strings.ToUpper(args[0])
		price, err := newClient().LatestPrice(cmd.Context(), pair)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %g\n", pair, price)
		return nil
	},
}

var ohlcCmd = &cobra.Command{
	Use:   "ohlc PAIR",
	Short: "Fetch OHLC candles, optionally storing and exporting them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pair := strings.ToUpper(args[0])
		var interval *int
		if cmd.Flags().Changed("interval") {
			interval = &ohlcInterval
		}
		var since *int64
		if cmd.Flags().Changed("since") {
			since = &ohlcSince
		}
		series, err := newClient().OHLC(cmd.Context(), pair, interval, since)
		if err != nil {
			return err
		}
		if ohlcSave {
			if err := ensureDir(cfg.Store.Path); err != nil {
				return err
			}
			if err := store.Write(cfg.Store.Path, series); err != nil {
				return err
			}
		}
		return present(cmd.OutOrStdout(), series)
	},
}

var readCmd = &cobra.Command{
	Use:   "read [PAIR]",
	Short: "Read stored candles of a pair, or list stored pairs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			pairs, err := store.Pairs(cfg.Store.Path)
			if err != nil {
				return err
			}
			for _, p := range pairs {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		}
		series, err := store.Read(cfg.Store.Path, strings.ToUpper(args[0]))
		if err != nil {
			return err
		}
		return present(cmd.OutOrStdout(), series)
	},
}

func init() {
	ohlcCmd.Flags().IntVarP(&ohlcInterval, "interval", "i", 60, "candle interval in minutes")
	ohlcCmd.Flags().Int64Var(&ohlcSince, "since", 0, "return candles after this timestamp")
	ohlcCmd.Flags().BoolVar(&ohlcSave, "save", false, "write the candles to the store")
	for _, c := range []*cobra.Command{ohlcCmd, readCmd} {
		c.Flags().StringVar(&csvDir, "csv", "", "export the series to DIR/<pair>.csv")
		c.Flags().IntVarP(&showRows, "rows", "n", 10, "number of most recent candles to print")
	}
	rootCmd.AddCommand(statusCmd, priceCmd, ohlcCmd, readCmd)
}

func present(out io.Writer, series model.PriceSeries) error {
	if csvDir != "" {
		path, err := export.WriteFile(csvDir, series)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "exported %d candles to %s\n", series.Len(), path)
	}
	printCandles(out, series, showRows)
	printSummary(out, calculator.Summarize(series))
	return nil
}

func printCandles(out io.Writer, series model.PriceSeries, rows int) {
	start := 0
	if rows >= 0 && series.Len() > rows {
		start = series.Len() - rows
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "time\topen\thigh\tlow\tclose\tvwap\tvolume\tcount\t")
	for _, p := range series.Prices[start:] {
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\t%g\t%d\t\n",
			time.Unix(p.Time, 0).UTC().Format("2006-01-02 15:04"),
			p.Open, p.High, p.Low, p.Close, p.Vwap, p.Volume, p.Count)
	}
	w.Flush()
}

func printSummary(out io.Writer, s model.SeriesSummary) {
	fmt.Fprintf(out, "\n%s: %d candles", s.Pair, s.Candles)
	if s.Candles == 0 {
		fmt.Fprintln(out)
		return
	}
	fmt.Fprintf(out, ", last close %g, range %g – %g (%.0f%%), SMA20 %.2f, RSI14 %.0f\n",
		s.LastClose, s.Low, s.High, s.Position*100, s.SMA20, s.RSI14)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
