// Package solana wraps the Solana RPC client with the signing and
// confirmation primitives the trade pipeline needs. Transaction delivery
// itself goes through the relay, so there is no send path here.
package solana

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"gatewaybot/internal/domain"
)

const (
	confirmPollInterval = 2 * time.Second
	confirmTimeout      = 60 * time.Second
)

// Client is a signing-capable Solana RPC client bound to one wallet.
type Client struct {
	rpc        *rpc.Client
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
}

// NewClient constructs a client for the given RPC endpoint and wallet key.
func NewClient(rpcURL string, key solana.PrivateKey) (*Client, error) {
	if rpcURL == "" {
		return nil, errors.New("solana: rpc endpoint is required")
	}
	if len(key) == 0 {
		return nil, domain.ErrMissingSigningKey
	}
	return &Client{
		rpc:        rpc.New(rpcURL),
		privateKey: key,
		publicKey:  key.PublicKey(),
	}, nil
}

// PublicKey returns the wallet's public key.
func (c *Client) PublicKey() solana.PublicKey {
	return c.publicKey
}

// BalanceLamports returns the wallet's SOL balance in lamports.
func (c *Client) BalanceLamports(ctx context.Context) (uint64, error) {
	out, err := c.rpc.GetBalance(ctx, c.publicKey, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("solana: get balance: %w", err)
	}
	return out.Value, nil
}

// SignTransaction deserializes a base64-encoded transaction, stamps it with
// a freshly fetched blockhash, signs it with the wallet key, and returns it
// re-encoded. The payload arrives with whatever blockhash the aggregator and
// relay used while building; that one may already be expiring, so recency is
// re-established here, last before signing.
func (c *Client) SignTransaction(ctx context.Context, txBase64 string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(txBase64)
	if err != nil {
		return "", fmt.Errorf("solana: decode transaction: %w", err)
	}
	tx, err := solana.TransactionFromBytes(raw)
	if err != nil {
		return "", fmt.Errorf("solana: parse transaction: %w", err)
	}
	if len(tx.Message.AccountKeys) == 0 || !tx.Message.AccountKeys[0].Equals(c.publicKey) {
		return "", fmt.Errorf("solana: transaction fee payer is not the wallet")
	}

	blockhash, err := c.LatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("solana: refresh blockhash: %w", err)
	}
	tx.Message.RecentBlockhash = blockhash

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if c.publicKey.Equals(key) {
			return &c.privateKey
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSigningFailed, err)
	}
	signed, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("solana: encode signed transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(signed), nil
}

// Confirm polls signature status until the transaction reaches confirmed or
// finalized commitment. A transaction the ledger rejected returns the ledger
// error; the relay's landing report does not imply success on chain.
func (c *Client) Confirm(ctx context.Context, signature string) error {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return fmt.Errorf("solana: invalid signature: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(confirmPollInterval)
	defer ticker.Stop()

	for {
		statuses, err := c.rpc.GetSignatureStatuses(ctx, false, sig)
		if err == nil && len(statuses.Value) > 0 && statuses.Value[0] != nil {
			status := statuses.Value[0]
			if status.Err != nil {
				return fmt.Errorf("solana: transaction %s failed on chain: %v", signature, status.Err)
			}
			if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("solana: confirmation of %s: %w", signature, ctx.Err())
		case <-ticker.C:
		}
	}
}

// LatestBlockhash returns the current blockhash at finalized commitment.
func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("solana: get blockhash: %w", err)
	}
	return out.Value.Blockhash, nil
}
