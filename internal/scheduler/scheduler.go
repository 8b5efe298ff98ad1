package scheduler

import (
	"context"
	"fmt"
	"strings"

	"KrakenSandbox/internal/collector"
	"KrakenSandbox/internal/model"
	"KrakenSandbox/internal/notifier"
	"KrakenSandbox/internal/sandbox"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Scheduler runs periodic collection and answers operator commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Fetcher   collector.Fetcher
	Trader    sandbox.Trader
	Notifier  notifier.Notifier
	Pairs     []string
	Ctx       context.Context

	// collectJob is shared by cron ticks and RunCollectNow, so overlapping runs are skipped.
	collectJob cron.Job
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, trader sandbox.Trader, n notifier.Notifier, pairs []string) *Scheduler {
	logger := cronLogger{}
	s := &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLogger(logger)),
		Collector: col,
		Fetcher:   col.Fetcher,
		Trader:    trader,
		Notifier:  n,
		Pairs:     pairs,
		Ctx:       ctx,
	}
	s.collectJob = cron.NewChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)).
		Then(cron.FuncJob(s.collectTask))
	return s
}

// RegisterAll registers the collection task on collectCron.
func (s *Scheduler) RegisterAll(collectCron string) error {
	if _, err := s.Cron.AddJob(collectCron, s.collectJob); err != nil {
		return fmt.Errorf("register collect task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("pairs", len(s.Pairs)).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunCollectNow executes the collection task immediately. It is a no-op while a
// scheduled collection is still running.
func (s *Scheduler) RunCollectNow() {
	s.collectJob.Run()
}

func (s *Scheduler) collectTask() {
	log.Info().Strs("pairs", s.Pairs).Msg("running collection")
	for _, pair := range s.Pairs {
		if s.Ctx.Err() != nil {
			return
		}
		s.trySend(s.collect(pair))
	}
}

func (s *Scheduler) collect(pair string) string {
	report, err := s.Collector.Collect(s.Ctx, pair)
	if err != nil {
		log.Error().Err(err).Str("pair", pair).Msg("collect")
		return notifier.FormatError("collect "+pair, err)
	}
	return notifier.FormatCollection(report.Summary, report.Fetched)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return usage
	}
	name := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])
	args := fields[1:]

	switch name {
	case "/status":
		st, err := s.Fetcher.Status(ctx)
		if err != nil {
			return notifier.FormatError("status", err)
		}
		return notifier.FormatStatus(st)

	case "/price":
		if len(args) != 1 {
			return "usage: /price PAIR"
		}
		pair := strings.ToUpper(args[0])
		price, err := s.Fetcher.LatestPrice(ctx, pair)
		if err != nil {
			return notifier.FormatError("price "+pair, err)
		}
		return fmt.Sprintf("💱 %s: %.2f", pair, price)

	case "/portfolio":
		return s.portfolio(ctx)

	case "/buy", "/sell":
		if len(args) != 2 {
			return fmt.Sprintf("usage: %s PAIR AMOUNT", name)
		}
		pair := strings.ToUpper(args[0])
		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Sprintf("invalid amount %q", args[1])
		}
		trade := s.Trader.Buy
		if name == "/sell" {
			trade = s.Trader.Sell
		}
		fill, err := trade(ctx, pair, amount.InexactFloat64())
		if err != nil {
			return notifier.FormatError(strings.TrimPrefix(name, "/")+" "+pair, err)
		}
		return notifier.FormatFill(fill, s.Trader.Balance(), s.Trader.Currency())

	case "/collect":
		pairs := s.Pairs
		if len(args) > 0 {
			pairs = []string{strings.ToUpper(args[0])}
		}
		replies := make([]string, 0, len(pairs))
		for _, pair := range pairs {
			replies = append(replies, s.collect(pair))
		}
		return strings.Join(replies, "\n")

	default:
		return usage
	}
}

const usage = "Commands:\n" +
	"• /status\n" +
	"• /price PAIR\n" +
	"• /portfolio\n" +
	"• /buy PAIR AMOUNT\n" +
	"• /sell PAIR AMOUNT\n" +
	"• /collect [PAIR]"

func (s *Scheduler) portfolio(ctx context.Context) string {
	state := model.LedgerState{
		Balance:  s.Trader.Balance(),
		Currency: s.Trader.Currency(),
		Holdings: s.Trader.Holdings(),
	}
	prices := make(map[string]float64, len(state.Holdings))
	for pair := range state.Holdings {
		price, err := s.Fetcher.LatestPrice(ctx, pair)
		if err != nil {
			log.Warn().Err(err).Str("pair", pair).Msg("portfolio valuation")
			continue
		}
		prices[pair] = price
	}
	return notifier.FormatPortfolio(state, prices)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.Notify(s.Ctx, text); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
