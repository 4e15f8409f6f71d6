package domain

import "time"

// TxStatus is the lifecycle state of a relayed transaction.
type TxStatus string

const (
	TxPending TxStatus = "pending"
	TxSuccess TxStatus = "success"
	TxFailed  TxStatus = "failed"
)

// TransactionRecord is the persisted outcome of one trade attempt. A record
// transitions pending -> success or pending -> failed exactly once and is
// never deleted. Signature is nil until the relay returns one; every
// successful record has a non-nil signature.
type TransactionRecord struct {
	ID         int64   `json:"id"`
	Signature  *string `json:"tx_signature"`
	Network    string  `json:"network"`
	Method     string  `json:"method"`
	Venue      string  `json:"dex"`
	InputMint  string  `json:"token_in"`
	OutputMint string  `json:"token_out"`
	AmountIn   float64 `json:"amount_in"`
	AmountOut  float64 `json:"amount_out"`
	// ExpectedProfitPct is the round-trip profit predicted by the quotes, as
	// a percentage. The field is explicitly a percentage, not a currency
	// amount.
	ExpectedProfitPct float64  `json:"expected_profit_pct"`
	ActualProfitPct   float64  `json:"actual_profit_pct"`
	CostSOL           float64  `json:"cost_sol"`
	TipSOL            float64  `json:"jito_tip_sol"`
	Refunded          bool     `json:"refunded"`
	Status            TxStatus `json:"status"`
	LatencyMs         int64    `json:"latency_ms"`
	ErrorMessage      *string  `json:"error_message"`
	CreatedAt         time.Time `json:"timestamp"`
}

// LedgerAggregate is the on-demand rollup of persisted transaction rows. It
// is the source of truth for API responses, distinct from the in-memory
// Stats mirror kept by the running bot.
type LedgerAggregate struct {
	TotalTransactions      int64   `json:"total_transactions"`
	SuccessfulTransactions int64   `json:"successful_transactions"`
	AvgLatencyMs           float64 `json:"avg_latency"`
	TotalProfit            float64 `json:"total_profit"`
	TotalCost              float64 `json:"total_cost"`
	RelaySavings           float64 `json:"relay_savings"`
}

// SuccessRate returns the percentage of successful transactions, 0 when no
// transactions have been recorded.
func (a LedgerAggregate) SuccessRate() float64 {
	if a.TotalTransactions == 0 {
		return 0
	}
	return float64(a.SuccessfulTransactions) / float64(a.TotalTransactions) * 100
}
