package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gatewaybot/internal/domain"
)

// OpportunityStore implements domain.OpportunityStore using PostgreSQL.
type OpportunityStore struct {
	pool *pgxpool.Pool
}

// NewOpportunityStore creates an OpportunityStore backed by the given pool.
func NewOpportunityStore(pool *pgxpool.Pool) *OpportunityStore {
	return &OpportunityStore{pool: pool}
}

const oppSelectCols = `id, token_in, token_out, route_path, buy_price, sell_price,
	profit_percent, profit_lamports, forward_quote, reverse_quote, executed, detected_at`

func scanOpportunityRows(rows pgx.Rows) ([]domain.Opportunity, error) {
	var opps []domain.Opportunity
	for rows.Next() {
		var o domain.Opportunity
		if err := rows.Scan(
			&o.ID, &o.InputMint, &o.OutputMint, &o.Path, &o.BuyPrice, &o.SellPrice,
			&o.ProfitPercent, &o.ProfitLamports, &o.ForwardQuote, &o.ReverseQuote,
			&o.Executed, &o.DetectedAt,
		); err != nil {
			return nil, err
		}
		opps = append(opps, o)
	}
	return opps, rows.Err()
}

// Insert persists one detected opportunity.
func (s *OpportunityStore) Insert(ctx context.Context, opp domain.Opportunity) error {
	const query = `
		INSERT INTO arbitrage_opportunities (
			id, token_in, token_out, route_path, buy_price, sell_price,
			profit_percent, profit_lamports, forward_quote, reverse_quote,
			executed, detected_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12
		)`

	detectedAt := opp.DetectedAt
	if detectedAt.IsZero() {
		detectedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, query,
		opp.ID, opp.InputMint, opp.OutputMint, opp.Path, opp.BuyPrice, opp.SellPrice,
		opp.ProfitPercent, opp.ProfitLamports, opp.ForwardQuote, opp.ReverseQuote,
		opp.Executed, detectedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert opportunity: %w", err)
	}
	return nil
}

// ListRecent returns the most recently detected opportunities, newest first.
func (s *OpportunityStore) ListRecent(ctx context.Context, limit int) ([]domain.Opportunity, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + oppSelectCols + ` FROM arbitrage_opportunities ORDER BY detected_at DESC LIMIT $1`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent opportunities: %w", err)
	}
	defer rows.Close()

	opps, err := scanOpportunityRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan recent opportunities: %w", err)
	}
	return opps, nil
}

// ListBefore returns all opportunities detected strictly before the cutoff,
// oldest first, for archiving.
func (s *OpportunityStore) ListBefore(ctx context.Context, before time.Time) ([]domain.Opportunity, error) {
	query := `SELECT ` + oppSelectCols + ` FROM arbitrage_opportunities WHERE detected_at < $1 ORDER BY detected_at ASC`
	rows, err := s.pool.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("postgres: list opportunities before: %w", err)
	}
	defer rows.Close()
	return scanOpportunityRows(rows)
}
