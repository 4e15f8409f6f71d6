package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatewaybot/internal/domain"
)

type fakeSender struct {
	name  string
	err   error
	calls int
	title string
	msg   string
}

func (f *fakeSender) Send(_ context.Context, title, message string) error {
	f.calls++
	f.title = title
	f.msg = message
	return f.err
}

func (f *fakeSender) Name() string { return f.name }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotify_EmptyFilterAllowsEverything(t *testing.T) {
	s := &fakeSender{name: "telegram"}
	n := NewNotifier([]Sender{s}, nil, testLogger())

	require.NoError(t, n.Notify(context.Background(), EventLowBalance, "Low balance", "0.005 SOL"))
	assert.Equal(t, 1, s.calls)
	assert.Equal(t, "Low balance", s.title)
}

func TestNotify_FilterBlocksUnlistedEvents(t *testing.T) {
	s := &fakeSender{name: "telegram"}
	n := NewNotifier([]Sender{s}, []string{EventTradeExecuted}, testLogger())

	require.NoError(t, n.Notify(context.Background(), EventBotStarted, "Bot started", ""))
	assert.Zero(t, s.calls)

	require.NoError(t, n.Notify(context.Background(), EventTradeExecuted, "Trade executed", ""))
	assert.Equal(t, 1, s.calls)
}

func TestDispatch_SenderFailureDoesNotBlockOthers(t *testing.T) {
	bad := &fakeSender{name: "telegram", err: errors.New("chat not found")}
	good := &fakeSender{name: "discord"}
	n := NewNotifier([]Sender{bad, good}, nil, testLogger())

	err := n.Notify(context.Background(), EventBotStarted, "Bot started", "")
	require.Error(t, err)
	assert.ErrorContains(t, err, "1 sender(s) failed")
	assert.ErrorContains(t, err, "telegram: chat not found")
	assert.Equal(t, 1, good.calls)
}

func TestNotify_NoSendersIsNoop(t *testing.T) {
	n := NewNotifier(nil, nil, testLogger())
	assert.NoError(t, n.Notify(context.Background(), EventBotStarted, "Bot started", ""))
}

func TestTradeExecuted_Formatting(t *testing.T) {
	s := &fakeSender{name: "discord"}
	n := NewNotifier([]Sender{s}, nil, testLogger())

	sig := "5sigExample"
	rec := domain.TransactionRecord{
		InputMint:         "SOL",
		OutputMint:        "USDC",
		ExpectedProfitPct: 0.5,
		LatencyMs:         120,
		Signature:         &sig,
		Refunded:          true,
	}
	require.NoError(t, n.TradeExecuted(context.Background(), rec))

	assert.Equal(t, "Trade executed", s.title)
	assert.Contains(t, s.msg, "SOL -> USDC")
	assert.Contains(t, s.msg, "0.5000%")
	assert.Contains(t, s.msg, "5sigExample")
	assert.Contains(t, s.msg, "Tip refunded")
}

func TestTradeFailed_Formatting(t *testing.T) {
	s := &fakeSender{name: "discord"}
	n := NewNotifier([]Sender{s}, nil, testLogger())

	reason := "confirmation timed out"
	rec := domain.TransactionRecord{
		InputMint:    "SOL",
		OutputMint:   "USDT",
		ErrorMessage: &reason,
	}
	require.NoError(t, n.TradeFailed(context.Background(), rec))

	assert.Equal(t, "Trade failed", s.title)
	assert.Contains(t, s.msg, "confirmation timed out")
}
