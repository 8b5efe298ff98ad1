package main

import (
	"KrakenSandbox/internal/collector"
	"KrakenSandbox/internal/notifier"
	"KrakenSandbox/internal/scheduler"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect OHLC on schedule and answer Telegram commands until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log.Info().Msg("KrakenSandbox starting")

		client := newClient()
		journal := openJournal()
		defer journal.Close()

		if err := ensureDir(cfg.Store.Path); err != nil {
			return err
		}
		col := collector.NewCollector(client, cfg.Store.Path, cfg.Collect.Interval, journal)
		col.CSVDir = cfg.Collect.CSVDir
		col.Incremental = cfg.Collect.Incremental

		trader, err := openTrader(client, journal)
		if err != nil {
			return err
		}

		var n notifier.Notifier = notifier.NewNoopNotifier()
		var tn *notifier.TelegramNotifier
		if cfg.TelegramEnabled() {
			tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
			n = tn
		}

		sched := scheduler.NewScheduler(ctx, col, trader, n, cfg.Collect.Pairs)
		if err := sched.RegisterAll(cfg.Collect.Cron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		if tn != nil {
			go tn.StartPolling(ctx, sched.HandleCommand)
			log.Info().Msg("telegram polling started")
		}

		if cfg.Collect.RunOnStart {
			log.Info().Msg("run_on_start enabled, collecting now")
			go sched.RunCollectNow()
		}

		log.Info().Str("cron", cfg.Collect.Cron).Strs("pairs", cfg.Collect.Pairs).Msg("KrakenSandbox is running, press Ctrl+C to stop")
		<-ctx.Done()
		log.Info().Msg("shutdown signal received, stopping")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
