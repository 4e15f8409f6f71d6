package handler

import (
	"log/slog"
	"net/http"

	"gatewaybot/internal/domain"
)

// TransactionHandler serves the transaction history.
type TransactionHandler struct {
	transactions domain.TransactionStore
	log          *slog.Logger
}

// NewTransactionHandler creates a TransactionHandler.
func NewTransactionHandler(transactions domain.TransactionStore, log *slog.Logger) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, log: log}
}

// ListTransactions returns recent transactions, newest first.
// GET /api/transactions?limit=50
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 50, 500)

	recs, err := h.transactions.ListRecent(r.Context(), limit)
	if err != nil {
		h.log.Error("list transactions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	if recs == nil {
		recs = []domain.TransactionRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}
