package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatewaybot/internal/domain"
)

// staleBlockhash is 32 zero bytes, the kind of placeholder recency token an
// externally built payload can carry.
var staleBlockhash = solana.MustHashFromBase58("11111111111111111111111111111111")

// newBlockhashServer serves getLatestBlockhash with the given hash over
// JSON-RPC.
func newBlockhashServer(t *testing.T, hash solana.Hash) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     any    `json:"id"`
			Method string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "getLatestBlockhash", req.Method)

		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]any{
				"context": map[string]any{"slot": 123},
				"value": map[string]any{
					"blockhash":            hash.String(),
					"lastValidBlockHeight": 456,
				},
			},
		})
	}))
}

// buildUnsignedTx returns a base64 transfer transaction paid by payer and
// stamped with the stale blockhash.
func buildUnsignedTx(t *testing.T, payer solana.PublicKey) string {
	t.Helper()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(1, payer, solana.NewWallet().PublicKey()).Build(),
		},
		staleBlockhash,
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)

	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func TestSignTransaction_RefreshesBlockhashBeforeSigning(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	fresh := solana.Hash(solana.NewWallet().PublicKey())

	srv := newBlockhashServer(t, fresh)
	defer srv.Close()

	c, err := NewClient(srv.URL, key)
	require.NoError(t, err)

	signedB64, err := c.SignTransaction(context.Background(), buildUnsignedTx(t, key.PublicKey()))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(signedB64)
	require.NoError(t, err)
	signed, err := solana.TransactionFromBytes(raw)
	require.NoError(t, err)

	assert.Equal(t, fresh, signed.Message.RecentBlockhash)
	assert.NotEqual(t, staleBlockhash, signed.Message.RecentBlockhash)
	assert.Equal(t, key.PublicKey(), signed.Message.AccountKeys[0])
	require.Len(t, signed.Signatures, 1)
	assert.NotEqual(t, solana.Signature{}, signed.Signatures[0])
}

func TestSignTransaction_RejectsForeignFeePayer(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	srv := newBlockhashServer(t, solana.Hash(solana.NewWallet().PublicKey()))
	defer srv.Close()

	c, err := NewClient(srv.URL, key)
	require.NoError(t, err)

	other := solana.NewWallet().PrivateKey
	_, err = c.SignTransaction(context.Background(), buildUnsignedTx(t, other.PublicKey()))
	assert.ErrorContains(t, err, "fee payer is not the wallet")
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient("http://localhost:8899", nil)
	assert.ErrorIs(t, err, domain.ErrMissingSigningKey)
}
