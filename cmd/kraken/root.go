package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"KrakenSandbox/internal/config"
	"KrakenSandbox/internal/kraken"
	"KrakenSandbox/internal/recorder"
	"KrakenSandbox/internal/sandbox"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "kraken",
	Short:         "Kraken market data and paper-trading sandbox",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load .env: %w", err)
		}
		if cfgPath == "" {
			cfgPath = config.DefaultPath
			if v := os.Getenv("CONFIG_PATH"); v != "" {
				cfgPath = v
			}
		}
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return setupLogging(cfg.LogLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default $CONFIG_PATH or configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "trace, debug, info, warn or error")
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("kraken")
	}
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	return nil
}

func newClient() *kraken.Client {
	return kraken.NewClient(cfg.Kraken.BaseURL, cfg.Proxy, cfg.Kraken.Timeout)
}

// openJournal falls back to a no-op journal when SQLite cannot be opened.
func openJournal() recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	if err := ensureDir(cfg.Database.SQLitePath); err != nil {
		log.Warn().Err(err).Msg("journal dir, using noop")
		return recorder.NewNoopRecorder()
	}
	r, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite journal failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return r
}

// openTrader returns the persisted sandbox ledger decorated with the trade journal.
func openTrader(prices sandbox.PriceSource, journal recorder.Recorder) (sandbox.Trader, error) {
	if err := ensureDir(cfg.Sandbox.StateFile); err != nil {
		return nil, err
	}
	ledger, err := sandbox.NewLedger(prices, cfg.Sandbox.Balance, cfg.Sandbox.Currency,
		sandbox.WithOverdraft(cfg.Sandbox.AllowOverdraft),
		sandbox.WithStateFile(cfg.Sandbox.StateFile),
	)
	if err != nil {
		return nil, fmt.Errorf("init sandbox: %w", err)
	}
	return sandbox.NewJournaled(ledger, journal), nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
