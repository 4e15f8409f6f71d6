package gateway

import (
	"encoding/json"
	"fmt"
)

// Default build options applied by Options() and validated at construction.
const (
	DefaultDeliveryMethod = "optimized"
	DefaultTipLamports    = 10_000
	DefaultPriorityFee    = "auto"
)

// deliveryMethods enumerates the relay's recognized delivery paths.
var deliveryMethods = map[string]bool{
	"optimized": true,
	"jito":      true,
	"rpc":       true,
}

// BuildOptions enumerates every recognized option for the build endpoint and
// its default. There are no silently-defaulted dynamic options: unknown knobs
// do not exist.
type BuildOptions struct {
	DeliveryMethod string
	TipLamports    int64
	PriorityFee    string // "auto" or a lamport amount rendered as a string
}

// Options returns BuildOptions populated with the documented defaults.
func Options() BuildOptions {
	return BuildOptions{
		DeliveryMethod: DefaultDeliveryMethod,
		TipLamports:    DefaultTipLamports,
		PriorityFee:    DefaultPriorityFee,
	}
}

// Validate rejects option combinations the relay would refuse.
func (o BuildOptions) Validate() error {
	if !deliveryMethods[o.DeliveryMethod] {
		return fmt.Errorf("gateway: unknown delivery method %q", o.DeliveryMethod)
	}
	if o.TipLamports < 0 {
		return fmt.Errorf("gateway: tip must be >= 0, got %d", o.TipLamports)
	}
	if o.PriorityFee == "" {
		return fmt.Errorf("gateway: priority fee must not be empty")
	}
	return nil
}

// SendOptions enumerates every recognized option for the send endpoint.
// Round-robin fan-out across the configured ledger endpoints is on by
// default; pass DisableRoundRobin to force single-endpoint delivery.
type SendOptions struct {
	DisableRoundRobin bool
	// RPCs overrides the client's configured endpoint set for this send.
	RPCs []string
}

// BuildResult is the relay's response to a build request.
type BuildResult struct {
	Transaction    string `json:"transaction"` // base64, fee/tip instructions attached
	DeliveryMethod string `json:"deliveryMethod"`
	TipLamports    int64  `json:"jitoTipLamports"`
}

// SendResult is the relay's response to a send request, augmented with the
// wall-clock latency measured from call to response. Refunded is surfaced
// verbatim from the relay, never inferred.
type SendResult struct {
	Signature string `json:"signature"`
	Method    string `json:"deliveryMethod"`
	Refunded  bool   `json:"jitoRefunded"`
	LatencyMs int64  `json:"-"`
	// Raw preserves the full relay response for diagnostics.
	Raw json.RawMessage `json:"-"`
}
