package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gatewaybot/internal/domain"
)

// TransactionStore implements domain.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *pgxpool.Pool
}

// NewTransactionStore creates a TransactionStore backed by the given pool.
func NewTransactionStore(pool *pgxpool.Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

const txSelectCols = `id, tx_signature, network, delivery_method, dex,
	token_in, token_out, amount_in, amount_out,
	expected_profit_pct, actual_profit_pct, cost_sol, jito_tip_sol,
	jito_refunded, status, latency_ms, error_message, created_at`

func scanTransactionRows(rows pgx.Rows) ([]domain.TransactionRecord, error) {
	var recs []domain.TransactionRecord
	for rows.Next() {
		var r domain.TransactionRecord
		if err := rows.Scan(
			&r.ID, &r.Signature, &r.Network, &r.Method, &r.Venue,
			&r.InputMint, &r.OutputMint, &r.AmountIn, &r.AmountOut,
			&r.ExpectedProfitPct, &r.ActualProfitPct, &r.CostSOL, &r.TipSOL,
			&r.Refunded, &r.Status, &r.LatencyMs, &r.ErrorMessage, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// Insert appends one transaction outcome and returns its assigned ID.
func (s *TransactionStore) Insert(ctx context.Context, rec domain.TransactionRecord) (int64, error) {
	const query = `
		INSERT INTO transactions (
			tx_signature, network, delivery_method, dex,
			token_in, token_out, amount_in, amount_out,
			expected_profit_pct, actual_profit_pct, cost_sol, jito_tip_sol,
			jito_refunded, status, latency_ms, error_message, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12,
			$13, $14, $15, $16, $17
		) RETURNING id`

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id int64
	err := s.pool.QueryRow(ctx, query,
		rec.Signature, rec.Network, rec.Method, rec.Venue,
		rec.InputMint, rec.OutputMint, rec.AmountIn, rec.AmountOut,
		rec.ExpectedProfitPct, rec.ActualProfitPct, rec.CostSOL, rec.TipSOL,
		rec.Refunded, rec.Status, rec.LatencyMs, rec.ErrorMessage, createdAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("postgres: insert transaction: %w", err)
	}
	return id, nil
}

// ListRecent returns the most recent transactions, newest first.
func (s *TransactionStore) ListRecent(ctx context.Context, limit int) ([]domain.TransactionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + txSelectCols + ` FROM transactions ORDER BY created_at DESC LIMIT $1`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent transactions: %w", err)
	}
	defer rows.Close()

	recs, err := scanTransactionRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan recent transactions: %w", err)
	}
	return recs, nil
}

// Aggregate recomputes the ledger rollup from persisted rows. Latency is
// averaged over successful rows only; relay savings credit 90% of the tip on
// refunded rows.
func (s *TransactionStore) Aggregate(ctx context.Context) (domain.LedgerAggregate, error) {
	const query = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'success'),
			COALESCE(AVG(latency_ms) FILTER (WHERE status = 'success'), 0),
			COALESCE(SUM(expected_profit_pct) FILTER (WHERE status = 'success'), 0),
			COALESCE(SUM(cost_sol), 0),
			COALESCE(SUM(jito_tip_sol * 0.9) FILTER (WHERE jito_refunded), 0)
		FROM transactions`

	var agg domain.LedgerAggregate
	err := s.pool.QueryRow(ctx, query).Scan(
		&agg.TotalTransactions, &agg.SuccessfulTransactions, &agg.AvgLatencyMs,
		&agg.TotalProfit, &agg.TotalCost, &agg.RelaySavings,
	)
	if err != nil {
		return domain.LedgerAggregate{}, fmt.Errorf("postgres: aggregate transactions: %w", err)
	}
	return agg, nil
}

// ListBefore returns all transactions created strictly before the cutoff,
// oldest first, for archiving.
func (s *TransactionStore) ListBefore(ctx context.Context, before time.Time) ([]domain.TransactionRecord, error) {
	query := `SELECT ` + txSelectCols + ` FROM transactions WHERE created_at < $1 ORDER BY created_at ASC`
	rows, err := s.pool.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("postgres: list transactions before: %w", err)
	}
	defer rows.Close()
	return scanTransactionRows(rows)
}
