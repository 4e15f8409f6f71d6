// Package gateway implements the transaction relay client used to attach
// fee and tip instructions to swap transactions and to submit them for
// optimized delivery.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	buildPath = "/v1/transaction/build"
	sendPath  = "/v1/transaction/send"

	buildTimeout = 10 * time.Second
	sendTimeout  = 30 * time.Second
)

// Client talks to the relay's transaction API. Build and send use separate
// HTTP clients because send covers landing plus confirmation on the relay
// side and needs a longer deadline.
type Client struct {
	baseURL   string
	apiKey    string
	network   string
	rpcs      []string
	buildHTTP *http.Client
	sendHTTP  *http.Client
}

// NewClient constructs a relay client. rpcs is the endpoint set used for
// round-robin delivery on send; it may be empty, in which case the relay
// picks its own endpoints.
func NewClient(baseURL, apiKey, network string, rpcs []string) *Client {
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		network:   network,
		rpcs:      rpcs,
		buildHTTP: &http.Client{Timeout: buildTimeout},
		sendHTTP:  &http.Client{Timeout: sendTimeout},
	}
}

type buildRequest struct {
	Transaction     string `json:"transaction"`
	Network         string `json:"network"`
	DeliveryMethod  string `json:"deliveryMethod"`
	JitoTipLamports int64  `json:"jitoTipLamports"`
	PriorityFee     string `json:"priorityFee"`
}

// Build submits an unsigned transaction to the relay, which returns it with
// fee and tip instructions attached. The returned transaction must be
// re-signed before sending.
func (c *Client) Build(ctx context.Context, txBase64 string, opts BuildOptions) (*BuildResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	req := buildRequest{
		Transaction:     txBase64,
		Network:         c.network,
		DeliveryMethod:  opts.DeliveryMethod,
		JitoTipLamports: opts.TipLamports,
		PriorityFee:     opts.PriorityFee,
	}
	var out BuildResult
	if _, err := c.post(ctx, c.buildHTTP, buildPath, req, &out); err != nil {
		return nil, fmt.Errorf("gateway: build: %w", err)
	}
	if out.Transaction == "" {
		return nil, fmt.Errorf("gateway: build: empty transaction in response")
	}
	return &out, nil
}

type sendRequest struct {
	Transaction      string   `json:"transaction"`
	Network          string   `json:"network"`
	EnableRoundRobin bool     `json:"enableRoundRobin"`
	RPCs             []string `json:"rpcs,omitempty"`
}

// Send submits a signed transaction for delivery and waits for the relay's
// landing report. Latency is measured wall-clock around the whole call.
func (c *Client) Send(ctx context.Context, signedTxBase64 string, opts SendOptions) (*SendResult, error) {
	rpcs := opts.RPCs
	if rpcs == nil {
		rpcs = c.rpcs
	}
	req := sendRequest{
		Transaction:      signedTxBase64,
		Network:          c.network,
		EnableRoundRobin: !opts.DisableRoundRobin,
		RPCs:             rpcs,
	}
	start := time.Now()
	var out SendResult
	raw, err := c.post(ctx, c.sendHTTP, sendPath, req, &out)
	out.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		return nil, fmt.Errorf("gateway: send: %w", err)
	}
	if out.Signature == "" {
		return nil, fmt.Errorf("gateway: send: no signature in response")
	}
	out.Raw = raw
	return &out, nil
}

func (c *Client) post(ctx context.Context, hc *http.Client, path string, body, out any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(raw, 256))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return raw, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
