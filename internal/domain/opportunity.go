package domain

import (
	"encoding/json"
	"time"
)

// Opportunity is a qualifying round-trip price discrepancy found by the
// scanner: base -> candidate -> base through the aggregator. It is immutable
// once persisted and never updated.
type Opportunity struct {
	ID             string          `json:"id"`
	InputMint      string          `json:"token_in"`
	OutputMint     string          `json:"token_out"`
	Path           string          `json:"path"`
	BuyPrice       float64         `json:"buy_price"`
	SellPrice      float64         `json:"sell_price"`
	ProfitPercent  float64         `json:"profit_percent"`
	ProfitLamports int64           `json:"profit_lamports"`
	// ForwardQuote and ReverseQuote hold the raw aggregator payloads used to
	// compute profitability; the forward quote is what gets executed.
	ForwardQuote json.RawMessage `json:"forward_quote,omitempty"`
	ReverseQuote json.RawMessage `json:"reverse_quote,omitempty"`
	DetectedAt   time.Time       `json:"detected_at"`
	// Executed is reserved for future linking of executions back to the
	// opportunity row; current logic never sets it.
	Executed bool `json:"executed"`
}
