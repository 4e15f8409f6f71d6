// Package jupiter is the REST client for the Jupiter swap aggregator, which
// provides priced quotes and builds swap transactions.
package jupiter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// quoteTimeout bounds every quote request. Quote fetches are on the scan
	// path; a candidate that cannot be priced quickly is skipped, not
	// retried.
	quoteTimeout = 5 * time.Second

	// swapTimeout bounds the swap-build request, which is on the execution
	// path and tolerates a longer wait.
	swapTimeout = 10 * time.Second
)

// Client is a Jupiter API client.
type Client struct {
	baseURL     string
	slippageBps int
	quoteHTTP   *http.Client
	swapHTTP    *http.Client
}

// NewClient creates a new Jupiter client.
//
// baseURL is the API root, e.g. "https://quote-api.jup.ag/v6".
func NewClient(baseURL string, slippageBps int) *Client {
	if slippageBps <= 0 {
		slippageBps = 50
	}
	return &Client{
		baseURL:     baseURL,
		slippageBps: slippageBps,
		quoteHTTP:   &http.Client{Timeout: quoteTimeout},
		swapHTTP:    &http.Client{Timeout: swapTimeout},
	}
}

// GetQuote fetches a priced quote for swapping amount base units of inputMint
// into outputMint. Transport failures, timeouts, and non-2xx responses are
// all returned as errors; callers on the scan path treat any error as "skip
// this candidate". No retries are performed here.
func (c *Client) GetQuote(ctx context.Context, inputMint, outputMint string, amount int64) (*QuoteResponse, error) {
	params := url.Values{}
	params.Set("inputMint", inputMint)
	params.Set("outputMint", outputMint)
	params.Set("amount", strconv.FormatInt(amount, 10))
	params.Set("slippageBps", strconv.Itoa(c.slippageBps))

	requestURL := fmt.Sprintf("%s/quote?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("jupiter: create quote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.quoteHTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jupiter: quote request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jupiter: read quote response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupiter: quote status %d: %s", resp.StatusCode, truncate(body))
	}

	var quote QuoteResponse
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, fmt.Errorf("jupiter: decode quote: %w", err)
	}
	return &quote, nil
}

// BuildSwap requests an unsigned swap transaction for the given quote, with
// the wallet as the user and native SOL wrap/unwrap enabled. Failures
// propagate to the caller.
func (c *Client) BuildSwap(ctx context.Context, quote *QuoteResponse, userPublicKey string) (*SwapResponse, error) {
	if quote == nil {
		return nil, fmt.Errorf("jupiter: quote is required")
	}
	if userPublicKey == "" {
		return nil, fmt.Errorf("jupiter: userPublicKey is required")
	}

	payload, err := json.Marshal(swapRequest{
		QuoteResponse:    quote,
		UserPublicKey:    userPublicKey,
		WrapAndUnwrapSol: true,
	})
	if err != nil {
		return nil, fmt.Errorf("jupiter: marshal swap request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/swap", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("jupiter: create swap request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.swapHTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jupiter: swap request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jupiter: read swap response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupiter: swap status %d: %s", resp.StatusCode, truncate(body))
	}

	var swap SwapResponse
	if err := json.Unmarshal(body, &swap); err != nil {
		return nil, fmt.Errorf("jupiter: decode swap response: %w", err)
	}
	return &swap, nil
}

// truncate keeps error messages bounded when the API returns a large body.
func truncate(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
