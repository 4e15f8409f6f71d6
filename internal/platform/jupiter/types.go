package jupiter

import "strconv"

// QuoteResponse is the aggregator's priced estimate for swapping Amount of
// InputMint into OutputMint. Amounts are decimal strings of base units.
type QuoteResponse struct {
	InputMint            string `json:"inputMint"`
	InAmount             string `json:"inAmount"`
	OutputMint           string `json:"outputMint"`
	OutAmount            string `json:"outAmount"`
	OtherAmountThreshold string `json:"otherAmountThreshold"`
	SwapMode             string `json:"swapMode"`
	SlippageBps          int    `json:"slippageBps"`
	PriceImpactPct       string `json:"priceImpactPct"`
	ContextSlot          int64  `json:"contextSlot,omitempty"`
}

// OutAmountLamports parses the quote's output amount into base units.
func (q *QuoteResponse) OutAmountLamports() (int64, error) {
	return strconv.ParseInt(q.OutAmount, 10, 64)
}

// swapRequest is the payload for the swap-build endpoint.
type swapRequest struct {
	QuoteResponse    *QuoteResponse `json:"quoteResponse"`
	UserPublicKey    string         `json:"userPublicKey"`
	WrapAndUnwrapSol bool           `json:"wrapAndUnwrapSol"`
}

// SwapResponse contains the unsigned transaction built for a quote.
type SwapResponse struct {
	SwapTransaction      string `json:"swapTransaction"` // base64-encoded
	LastValidBlockHeight int64  `json:"lastValidBlockHeight"`
}
