// Package notify delivers operator alerts over one or more channels
// (Telegram, Discord). Events can be filtered so operators receive only the
// alerts they care about.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gatewaybot/internal/domain"
)

// Event types emitted by the bot.
const (
	EventTradeExecuted = "trade_executed"
	EventTradeFailed   = "trade_failed"
	EventBotStarted    = "bot_started"
	EventBotStopped    = "bot_stopped"
	EventLowBalance    = "low_balance"
)

// Sender is the interface each notification channel implements.
type Sender interface {
	Send(ctx context.Context, title, message string) error
	// Name returns a short identifier for the sender (e.g. "telegram").
	Name() string
}

// Notifier dispatches alerts to all registered senders. Only events whose
// type appears in the configured allow list are forwarded; an empty list
// allows everything. Delivery failures are logged, never fatal.
type Notifier struct {
	senders []Sender
	events  map[string]bool
	log     *slog.Logger
}

// NewNotifier creates a Notifier that delivers to the given senders.
func NewNotifier(senders []Sender, events []string, log *slog.Logger) *Notifier {
	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		allowed[strings.TrimSpace(e)] = true
	}
	return &Notifier{
		senders: senders,
		events:  allowed,
		log:     log.With("component", "notifier"),
	}
}

// Notify sends an alert to all senders if the event type passes the filter.
func (n *Notifier) Notify(ctx context.Context, event, title, message string) error {
	if len(n.events) > 0 && !n.events[event] {
		n.log.Debug("event filtered out", "event", event)
		return nil
	}
	return n.dispatch(ctx, title, message)
}

// TradeExecuted formats and sends an alert for a completed trade.
func (n *Notifier) TradeExecuted(ctx context.Context, rec domain.TransactionRecord) error {
	sig := ""
	if rec.Signature != nil {
		sig = *rec.Signature
	}
	msg := fmt.Sprintf(
		"Route: %s -> %s\nExpected profit: %.4f%%\nLatency: %dms\nSignature: %s",
		rec.InputMint, rec.OutputMint, rec.ExpectedProfitPct, rec.LatencyMs, sig,
	)
	if rec.Refunded {
		msg += "\nTip refunded"
	}
	return n.Notify(ctx, EventTradeExecuted, "Trade executed", msg)
}

// TradeFailed formats and sends an alert for a failed trade attempt.
func (n *Notifier) TradeFailed(ctx context.Context, rec domain.TransactionRecord) error {
	reason := "unknown"
	if rec.ErrorMessage != nil {
		reason = *rec.ErrorMessage
	}
	msg := fmt.Sprintf("Route: %s -> %s\nReason: %s", rec.InputMint, rec.OutputMint, reason)
	return n.Notify(ctx, EventTradeFailed, "Trade failed", msg)
}

// dispatch fans the alert out to every sender. A single sender failure does
// not prevent delivery to the rest; failures are combined into one error.
func (n *Notifier) dispatch(ctx context.Context, title, message string) error {
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.log.Error("sender failed", "sender", s.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		n.log.Debug("notification sent", "sender", s.Name(), "title", title)
	}
	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
