package domain

import (
	"context"
	"time"
)

// TransactionStore persists transaction outcomes. Writes are append-only;
// rows are never deleted by the trading path.
type TransactionStore interface {
	Insert(ctx context.Context, rec TransactionRecord) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]TransactionRecord, error)
	// Aggregate recomputes the rollup from persisted rows on demand.
	Aggregate(ctx context.Context) (LedgerAggregate, error)
	// ListBefore returns rows created strictly before the cutoff, for
	// cold-storage archival.
	ListBefore(ctx context.Context, before time.Time) ([]TransactionRecord, error)
}

// OpportunityStore persists detected arbitrage opportunities.
type OpportunityStore interface {
	Insert(ctx context.Context, opp Opportunity) error
	ListRecent(ctx context.Context, limit int) ([]Opportunity, error)
	ListBefore(ctx context.Context, before time.Time) ([]Opportunity, error)
}
