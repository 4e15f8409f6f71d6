// Package executor turns a detected opportunity into an on-chain trade:
// build the swap, attach relay fees, sign, submit through the relay, and
// confirm on the ledger. Every attempt ends in exactly one persisted
// transaction record, success or failure.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"gatewaybot/internal/domain"
	"gatewaybot/internal/notify"
	"gatewaybot/internal/platform/gateway"
	"gatewaybot/internal/platform/jupiter"
)

const lamportsPerSOL = 1e9

// baseFeeSOL is the flat signature fee charged by the ledger per transaction.
const baseFeeSOL = 0.000005

// SwapBuilder builds an unsigned swap transaction for a quote.
type SwapBuilder interface {
	BuildSwap(ctx context.Context, quote *jupiter.QuoteResponse, userPublicKey string) (*jupiter.SwapResponse, error)
}

// Relay attaches fee instructions to a transaction and submits it for
// optimized delivery.
type Relay interface {
	Build(ctx context.Context, txBase64 string, opts gateway.BuildOptions) (*gateway.BuildResult, error)
	Send(ctx context.Context, signedTxBase64 string, opts gateway.SendOptions) (*gateway.SendResult, error)
}

// Chain signs transactions and confirms their landing on the ledger. Signing
// includes refreshing the transaction's blockhash.
type Chain interface {
	SignTransaction(ctx context.Context, txBase64 string) (string, error)
	Confirm(ctx context.Context, signature string) error
}

// Executor runs the trade pipeline. All collaborators are injected; the
// executor owns no goroutines and no ambient state.
type Executor struct {
	swaps        SwapBuilder
	relay        Relay
	chain        Chain
	transactions domain.TransactionStore
	stats        *domain.Stats
	bus          domain.SignalBus
	notifier     *notify.Notifier
	walletPubKey string
	network      string
	log          *slog.Logger
}

// Config collects the executor's injected collaborators.
type Config struct {
	Swaps        SwapBuilder
	Relay        Relay
	Chain        Chain
	Transactions domain.TransactionStore
	Stats        *domain.Stats
	Bus          domain.SignalBus
	Notifier     *notify.Notifier
	WalletPubKey string
	Network      string
	Logger       *slog.Logger
}

// New creates an Executor from cfg.
func New(cfg Config) *Executor {
	return &Executor{
		swaps:        cfg.Swaps,
		relay:        cfg.Relay,
		chain:        cfg.Chain,
		transactions: cfg.Transactions,
		stats:        cfg.Stats,
		bus:          cfg.Bus,
		notifier:     cfg.Notifier,
		walletPubKey: cfg.WalletPubKey,
		network:      cfg.Network,
		log:          cfg.Logger.With("component", "executor"),
	}
}

// Execute runs the full pipeline for one opportunity. A non-nil error means
// the trade did not land; the returned record reflects the final state and
// has already been persisted, counted, and broadcast either way.
func (e *Executor) Execute(ctx context.Context, opp domain.Opportunity) (*domain.TransactionRecord, error) {
	tip := float64(gateway.DefaultTipLamports) / lamportsPerSOL
	rec := domain.TransactionRecord{
		Network:           e.network,
		Venue:             "jupiter",
		InputMint:         opp.InputMint,
		OutputMint:        opp.OutputMint,
		ExpectedProfitPct: opp.ProfitPercent,
		TipSOL:            tip,
		CostSOL:           tip + baseFeeSOL,
		Status:            domain.TxPending,
		CreatedAt:         time.Now().UTC(),
	}

	var quote jupiter.QuoteResponse
	if err := json.Unmarshal(opp.ForwardQuote, &quote); err != nil {
		return e.fail(ctx, rec, fmt.Errorf("executor: decode forward quote: %w", err))
	}
	if in, err := strconv.ParseInt(quote.InAmount, 10, 64); err == nil {
		rec.AmountIn = float64(in) / lamportsPerSOL
	}
	if out, err := quote.OutAmountLamports(); err == nil {
		rec.AmountOut = float64(out)
	}

	swap, err := e.swaps.BuildSwap(ctx, &quote, e.walletPubKey)
	if err != nil {
		return e.fail(ctx, rec, fmt.Errorf("executor: build swap: %w", err))
	}

	built, err := e.relay.Build(ctx, swap.SwapTransaction, gateway.Options())
	if err != nil {
		return e.fail(ctx, rec, fmt.Errorf("executor: relay build: %w", err))
	}
	rec.Method = built.DeliveryMethod

	signed, err := e.chain.SignTransaction(ctx, built.Transaction)
	if err != nil {
		return e.fail(ctx, rec, fmt.Errorf("executor: sign: %w", err))
	}

	sent, err := e.relay.Send(ctx, signed, gateway.SendOptions{})
	if err != nil {
		return e.fail(ctx, rec, fmt.Errorf("executor: relay send: %w", err))
	}
	rec.Signature = &sent.Signature
	rec.LatencyMs = sent.LatencyMs
	rec.Refunded = sent.Refunded
	if sent.Method != "" {
		rec.Method = sent.Method
	}

	// The relay's landing report is not confirmation. A transaction the
	// ledger rejected still counts as a failed trade.
	if err := e.chain.Confirm(ctx, sent.Signature); err != nil {
		return e.fail(ctx, rec, fmt.Errorf("executor: confirm: %w", err))
	}

	rec.Status = domain.TxSuccess
	rec.ActualProfitPct = opp.ProfitPercent
	e.finalize(ctx, &rec)
	e.log.Info("trade executed",
		"signature", sent.Signature,
		"method", rec.Method,
		"latency_ms", rec.LatencyMs,
		"refunded", rec.Refunded)
	return &rec, nil
}

// fail marks the record failed with the step error and finalizes it. The
// pipeline error is returned so the control loop can apply its recovery
// delay.
func (e *Executor) fail(ctx context.Context, rec domain.TransactionRecord, err error) (*domain.TransactionRecord, error) {
	msg := err.Error()
	rec.Status = domain.TxFailed
	rec.ErrorMessage = &msg
	e.finalize(ctx, &rec)
	e.log.Warn("trade failed", "route", rec.InputMint+"->"+rec.OutputMint, "error", err)
	return &rec, err
}

// finalize persists the record, folds it into the running stats, broadcasts
// it on the signal bus, and alerts operators. Persistence failure is logged
// and swallowed so one dead dependency cannot wedge the trading loop.
func (e *Executor) finalize(ctx context.Context, rec *domain.TransactionRecord) {
	if id, err := e.transactions.Insert(ctx, *rec); err != nil {
		e.log.Error("transaction not persisted", "error", err)
	} else {
		rec.ID = id
	}

	e.stats.RecordTrade(*rec)

	e.publish(ctx, rec)

	if e.notifier != nil {
		var err error
		if rec.Status == domain.TxSuccess {
			err = e.notifier.TradeExecuted(ctx, *rec)
		} else {
			err = e.notifier.TradeFailed(ctx, *rec)
		}
		if err != nil {
			e.log.Warn("notification failed", "error", err)
		}
	}
}

type busEnvelope struct {
	Type string                   `json:"type"`
	Data domain.TransactionRecord `json:"data"`
}

func (e *Executor) publish(ctx context.Context, rec *domain.TransactionRecord) {
	if e.bus == nil {
		return
	}
	payload, err := json.Marshal(busEnvelope{Type: "transaction", Data: *rec})
	if err != nil {
		e.log.Error("encode bus payload", "error", err)
		return
	}
	if err := e.bus.Publish(ctx, domain.ChannelTransactions, payload); err != nil {
		e.log.Warn("bus publish failed", "error", err)
	}
}
