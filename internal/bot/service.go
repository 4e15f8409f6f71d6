// Package bot runs the scan-and-trade control loop and owns its lifecycle.
// All collaborators are injected; there is no package-level state.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gatewaybot/internal/domain"
	"gatewaybot/internal/notify"
)

// minBalanceLamports is the minimum wallet balance required to start
// trading, matching one trade's input amount at the default size.
const minBalanceLamports uint64 = 10_000_000

// Scanner produces qualifying opportunities for one pass.
type Scanner interface {
	Scan(ctx context.Context) ([]domain.Opportunity, error)
}

// Executor runs the trade pipeline for one opportunity.
type Executor interface {
	Execute(ctx context.Context, opp domain.Opportunity) (*domain.TransactionRecord, error)
}

// Balancer reports the wallet's current balance in lamports. It is nil when
// no signing key is configured.
type Balancer interface {
	BalanceLamports(ctx context.Context) (uint64, error)
}

// Delays groups the pacing knobs of the control loop.
type Delays struct {
	ScanInterval  time.Duration
	TradeDelay    time.Duration
	RecoveryDelay time.Duration
}

// Service is the trading control loop. Start and Stop are safe for
// concurrent use; at most one loop runs at a time.
type Service struct {
	scanner  Scanner
	executor Executor
	chain    Balancer
	stats    *domain.Stats
	notifier *notify.Notifier
	delays   Delays
	// minProfitPercent gates execution; opportunities below it are recorded
	// by the scanner but never traded.
	minProfitPercent float64
	log              *slog.Logger

	// baseCtx scopes the loop to the application lifetime rather than to
	// the HTTP request that started it.
	baseCtx context.Context

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Config collects the service's collaborators and knobs.
type Config struct {
	Scanner          Scanner
	Executor         Executor
	Chain            Balancer
	Stats            *domain.Stats
	Notifier         *notify.Notifier
	Delays           Delays
	MinProfitPercent float64
	Logger           *slog.Logger
}

// New creates a Service. baseCtx bounds the lifetime of any loop the
// service starts.
func New(baseCtx context.Context, cfg Config) *Service {
	return &Service{
		scanner:          cfg.Scanner,
		executor:         cfg.Executor,
		chain:            cfg.Chain,
		stats:            cfg.Stats,
		notifier:         cfg.Notifier,
		delays:           cfg.Delays,
		minProfitPercent: cfg.MinProfitPercent,
		log:              cfg.Logger.With("component", "bot"),
		baseCtx:          baseCtx,
	}
}

// Running reports whether the control loop is active.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start launches the control loop. It fails with ErrBotRunning when a loop
// is already active, ErrMissingSigningKey when no wallet key is configured,
// and ErrInsufficientBalance when the wallet cannot fund a single trade.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return domain.ErrBotRunning
	}
	if s.chain == nil {
		return domain.ErrMissingSigningKey
	}

	balance, err := s.chain.BalanceLamports(ctx)
	if err != nil {
		return fmt.Errorf("bot: check balance: %w", err)
	}
	if balance < minBalanceLamports {
		return fmt.Errorf("%w: %d lamports, need %d",
			domain.ErrInsufficientBalance, balance, minBalanceLamports)
	}

	loopCtx, cancel := context.WithCancel(s.baseCtx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	s.log.Info("bot started", "balance_lamports", balance)
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, notify.EventBotStarted, "Bot started",
			fmt.Sprintf("Balance: %.4f SOL", float64(balance)/1e9)); err != nil {
			s.log.Warn("start notification failed", "error", err)
		}
	}

	go s.loop(loopCtx, s.done)
	return nil
}

// Stop cancels the control loop and waits for it to drain. It fails with
// ErrBotNotRunning when no loop is active.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return domain.ErrBotNotRunning
	}
	cancel, done := s.cancel, s.done
	s.running = false
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("bot: stop: %w", ctx.Err())
	}

	snap := s.stats.Snapshot()
	s.log.Info("bot stopped",
		"total_trades", snap.TotalTrades,
		"successful_trades", snap.SuccessfulTrades,
		"total_profit", snap.TotalProfit,
		"relay_savings", snap.RelaySavings)
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, notify.EventBotStopped, "Bot stopped",
			fmt.Sprintf("Trades: %d, successful: %d", snap.TotalTrades, snap.SuccessfulTrades)); err != nil {
			s.log.Warn("stop notification failed", "error", err)
		}
	}
	return nil
}

// loop alternates scan passes and trade execution until cancelled. A failed
// scan pass paces with the recovery delay; each trade attempt, successful or
// not, paces with the trade delay.
func (s *Service) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		opps, err := s.scanner.Scan(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Error("scan pass failed", "error", err)
			if !sleep(ctx, s.delays.RecoveryDelay) {
				return
			}
			continue
		}

		for _, opp := range opps {
			if ctx.Err() != nil {
				return
			}
			if opp.ProfitPercent < s.minProfitPercent {
				s.log.Debug("opportunity below execution threshold",
					"profit_percent", opp.ProfitPercent,
					"min_profit_percent", s.minProfitPercent)
				continue
			}

			// The executor has already persisted and counted a failed
			// attempt, so a trade error paces like a trade, not like a
			// broken cycle.
			if _, err := s.executor.Execute(ctx, opp); err != nil && ctx.Err() != nil {
				return
			}
			if !sleep(ctx, s.delays.TradeDelay) {
				return
			}
		}

		if !sleep(ctx, s.delays.ScanInterval) {
			return
		}
	}
}

// sleep waits for d or until ctx is cancelled, reporting whether the full
// wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
