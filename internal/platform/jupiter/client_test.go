package jupiter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetQuote_RequestAndDecode(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/quote", r.URL.Path)
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		json.NewEncoder(w).Encode(QuoteResponse{
			InputMint:  "So11111111111111111111111111111111111111112",
			InAmount:   "10000000",
			OutputMint: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
			OutAmount:  "9500",
			SwapMode:   "ExactIn",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 50)
	quote, err := c.GetQuote(context.Background(),
		"So11111111111111111111111111111111111111112",
		"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		10_000_000)
	require.NoError(t, err)

	assert.Equal(t, "So11111111111111111111111111111111111111112", query["inputMint"])
	assert.Equal(t, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", query["outputMint"])
	assert.Equal(t, "10000000", query["amount"])
	assert.Equal(t, "50", query["slippageBps"])

	out, err := quote.OutAmountLamports()
	require.NoError(t, err)
	assert.Equal(t, int64(9_500), out)
}

func TestGetQuote_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"no route"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 50)
	_, err := c.GetQuote(context.Background(), "mintA", "mintB", 1)
	assert.ErrorContains(t, err, "quote status 400")
	assert.ErrorContains(t, err, "no route")
}

func TestNewClient_DefaultSlippage(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("slippageBps")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, err := c.GetQuote(context.Background(), "a", "b", 1)
	require.NoError(t, err)
	assert.Equal(t, "50", got)
}

func TestBuildSwap_PayloadAndDecode(t *testing.T) {
	var got swapRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/swap", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(SwapResponse{
			SwapTransaction:      "c3dhcHR4",
			LastValidBlockHeight: 12345,
		})
	}))
	defer srv.Close()

	quote := &QuoteResponse{InAmount: "10000000", OutAmount: "9500"}
	c := NewClient(srv.URL, 50)
	swap, err := c.BuildSwap(context.Background(), quote, "WalletPubKey111")
	require.NoError(t, err)

	assert.Equal(t, "WalletPubKey111", got.UserPublicKey)
	assert.True(t, got.WrapAndUnwrapSol)
	require.NotNil(t, got.QuoteResponse)
	assert.Equal(t, "9500", got.QuoteResponse.OutAmount)
	assert.Equal(t, "c3dhcHR4", swap.SwapTransaction)
	assert.Equal(t, int64(12345), swap.LastValidBlockHeight)
}

func TestBuildSwap_RequiresQuoteAndWallet(t *testing.T) {
	c := NewClient("http://unused", 50)

	_, err := c.BuildSwap(context.Background(), nil, "wallet")
	assert.ErrorContains(t, err, "quote is required")

	_, err = c.BuildSwap(context.Background(), &QuoteResponse{}, "")
	assert.ErrorContains(t, err, "userPublicKey is required")
}
