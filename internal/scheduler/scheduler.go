package scheduler

import (
	"context"
	"fmt"
	"time"

	"SMCAlert/internal/domain/models"
	domrepo "SMCAlert/internal/domain/repository"
	"SMCAlert/internal/service/notify"
	"SMCAlert/internal/usecase"
	"SMCAlert/pkg/config"
	applogger "SMCAlert/pkg/logger"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = 2 * time.Minute

// Scheduler runs the periodic watchlist sweep: analyze every configured
// symbol, push the alerts that pass the delivery preferences, and close
// with a summary message.
type Scheduler struct {
	cron      *cron.Cron
	watchlist *usecase.WatchlistUseCase
	sentiment *usecase.SentimentUseCase
	notifier  *notify.QueueNotifier
	l         *applogger.Logger

	schedule string
	symbols  []string
	window   int
	tf       domrepo.Timeframe
}

func New(
	cfg *config.Config,
	watchlist *usecase.WatchlistUseCase,
	sentiment *usecase.SentimentUseCase,
	notifier *notify.QueueNotifier,
	l *applogger.Logger,
) *Scheduler {
	window := cfg.Watchlist.Window
	if window <= 0 {
		window = 100
	}
	schedule := cfg.Watchlist.Schedule
	if schedule == "" {
		schedule = "*/15 * * * *"
	}
	return &Scheduler{
		cron:      cron.New(),
		watchlist: watchlist,
		sentiment: sentiment,
		notifier:  notifier,
		l:         l,
		schedule:  schedule,
		symbols:   cfg.Watchlist.Symbols,
		window:    window,
		tf:        domrepo.TF1m,
	}
}

// Start registers the sweep and starts the cron loop.
func (s *Scheduler) Start() error {
	if len(s.symbols) == 0 {
		s.l.Warn("scheduler: no watchlist symbols configured, sweep disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("register watchlist sweep: %w", err)
	}
	s.cron.Start()
	s.l.Info("scheduler: started",
		applogger.String("schedule", s.schedule),
		applogger.Int("symbols", len(s.symbols)),
	)
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.l.Info("scheduler: stopped")
}

// RunNow triggers one sweep immediately.
func (s *Scheduler) RunNow() {
	s.sweep()
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.watchlist.Analyze(ctx, usecase.WatchlistParams{
		Symbols:   s.symbols,
		N:         s.window,
		Timeframe: s.tf,
	})
	if err != nil {
		s.l.Error("scheduler: sweep failed", applogger.Error(err))
		return
	}

	var dispatched int
	for _, a := range res.Analyses {
		if len(a.Alerts) == 0 {
			continue
		}
		if err := s.notifier.NotifyAlerts(ctx, a.Symbol, a.Alerts); err != nil {
			s.l.Error("scheduler: alert dispatch failed",
				applogger.String("symbol", a.Symbol),
				applogger.Error(err),
			)
			continue
		}
		dispatched++
	}

	score := s.fetchSentiment(ctx)
	if err := s.notifier.NotifySummary(ctx, res.Summary, score); err != nil {
		s.l.Error("scheduler: summary dispatch failed", applogger.Error(err))
	}

	s.l.Info("scheduler: sweep complete",
		applogger.Int("analyzed", res.Summary.Analyzed),
		applogger.Int("with_alerts", dispatched),
		applogger.Int("failed", len(res.Summary.Errors)),
		applogger.String("bias", string(res.Summary.Bias)),
		applogger.Duration("took", time.Since(start)),
	)
}

// fetchSentiment is best effort; a sweep summary without the macro score
// is still worth sending.
func (s *Scheduler) fetchSentiment(ctx context.Context) *models.SentimentScore {
	if s.sentiment == nil {
		return nil
	}
	score, err := s.sentiment.GetSentiment(ctx)
	if err != nil {
		s.l.Warn("scheduler: sentiment fetch failed", applogger.Error(err))
		return nil
	}
	return score
}
