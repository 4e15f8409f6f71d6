package handler

import (
	"log/slog"
	"net/http"

	"gatewaybot/internal/domain"
)

// Runner reports whether the trading loop is active.
type Runner interface {
	Running() bool
}

// StatsHandler serves the ledger rollup. Numbers are recomputed from
// persisted rows on every request rather than read from the bot's in-memory
// counters, so restarts do not reset the figures.
type StatsHandler struct {
	transactions domain.TransactionStore
	bot          Runner
	network      string
	log          *slog.Logger
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(transactions domain.TransactionStore, bot Runner, network string, log *slog.Logger) *StatsHandler {
	return &StatsHandler{transactions: transactions, bot: bot, network: network, log: log}
}

// GetStats returns the aggregate trading figures.
// GET /api/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	agg, err := h.transactions.Aggregate(r.Context())
	if err != nil {
		h.log.Error("aggregate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_transactions":      agg.TotalTransactions,
		"successful_transactions": agg.SuccessfulTransactions,
		"success_rate":            agg.SuccessRate(),
		"avg_latency":             agg.AvgLatencyMs,
		"total_profit":            agg.TotalProfit,
		"total_cost":              agg.TotalCost,
		"relay_savings":           agg.RelaySavings,
		"network":                 h.network,
		"bot_running":             h.bot.Running(),
	})
}
