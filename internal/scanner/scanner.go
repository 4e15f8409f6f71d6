// Package scanner detects round-trip arbitrage opportunities by pricing
// base -> candidate -> base through the swap aggregator.
package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gatewaybot/internal/domain"
	"gatewaybot/internal/platform/jupiter"
)

// reportThresholdPct is the minimum round-trip profit, in percent, for a
// price discrepancy to be recorded as an opportunity. It is intentionally
// lower than the bot's execution threshold so that near-misses still show up
// in the ledger.
const reportThresholdPct = 0.1

// Quoter prices a swap of amount base units of inputMint into outputMint.
type Quoter interface {
	GetQuote(ctx context.Context, inputMint, outputMint string, amount int64) (*jupiter.QuoteResponse, error)
}

// Scanner prices each candidate mint round trip against the base mint and
// persists qualifying opportunities.
type Scanner struct {
	quoter        Quoter
	opportunities domain.OpportunityStore
	baseMint      string
	candidates    []string
	inputLamports int64
	log           *slog.Logger
}

// New creates a Scanner. candidates are scanned in the given order on every
// pass.
func New(quoter Quoter, opportunities domain.OpportunityStore, baseMint string, candidates []string, inputLamports int64, log *slog.Logger) *Scanner {
	return &Scanner{
		quoter:        quoter,
		opportunities: opportunities,
		baseMint:      baseMint,
		candidates:    candidates,
		inputLamports: inputLamports,
		log:           log.With("component", "scanner"),
	}
}

// Scan prices every candidate sequentially and returns the qualifying
// opportunities in candidate order. A candidate whose quotes fail or whose
// round trip is below threshold is skipped without aborting the pass; an
// opportunity is only returned once its row has been persisted.
func (s *Scanner) Scan(ctx context.Context) ([]domain.Opportunity, error) {
	var found []domain.Opportunity
	for _, candidate := range s.candidates {
		if err := ctx.Err(); err != nil {
			return found, fmt.Errorf("scanner: %w", domain.ErrContextDone)
		}

		opp, err := s.evaluate(ctx, candidate)
		if err != nil {
			s.log.Debug("candidate skipped", "candidate", candidate, "error", err)
			continue
		}
		if opp == nil {
			continue
		}

		if err := s.opportunities.Insert(ctx, *opp); err != nil {
			s.log.Warn("opportunity not persisted, dropping",
				"candidate", candidate, "profit_percent", opp.ProfitPercent, "error", err)
			continue
		}
		s.log.Info("opportunity detected",
			"candidate", candidate,
			"profit_percent", opp.ProfitPercent,
			"profit_lamports", opp.ProfitLamports)
		found = append(found, *opp)
	}
	return found, nil
}

// evaluate prices one candidate round trip. It returns (nil, nil) when the
// round trip is priced but falls below the report threshold.
func (s *Scanner) evaluate(ctx context.Context, candidate string) (*domain.Opportunity, error) {
	forward, err := s.quoter.GetQuote(ctx, s.baseMint, candidate, s.inputLamports)
	if err != nil {
		return nil, fmt.Errorf("forward quote: %w", err)
	}
	forwardOut, err := forward.OutAmountLamports()
	if err != nil {
		return nil, fmt.Errorf("forward quote amount: %w", err)
	}
	if forwardOut <= 0 {
		return nil, fmt.Errorf("forward quote returned %d", forwardOut)
	}

	reverse, err := s.quoter.GetQuote(ctx, candidate, s.baseMint, forwardOut)
	if err != nil {
		return nil, fmt.Errorf("reverse quote: %w", err)
	}
	reverseOut, err := reverse.OutAmountLamports()
	if err != nil {
		return nil, fmt.Errorf("reverse quote amount: %w", err)
	}

	profitLamports := reverseOut - s.inputLamports
	profitPercent := float64(profitLamports) / float64(s.inputLamports) * 100
	if profitPercent <= reportThresholdPct {
		return nil, nil
	}

	forwardJSON, err := json.Marshal(forward)
	if err != nil {
		return nil, fmt.Errorf("encode forward quote: %w", err)
	}
	reverseJSON, err := json.Marshal(reverse)
	if err != nil {
		return nil, fmt.Errorf("encode reverse quote: %w", err)
	}

	return &domain.Opportunity{
		ID:             uuid.NewString(),
		InputMint:      s.baseMint,
		OutputMint:     candidate,
		Path:           fmt.Sprintf("%s -> %s -> %s", s.baseMint, candidate, s.baseMint),
		BuyPrice:       float64(forwardOut) / float64(s.inputLamports),
		SellPrice:      float64(reverseOut) / float64(forwardOut),
		ProfitPercent:  profitPercent,
		ProfitLamports: profitLamports,
		ForwardQuote:   forwardJSON,
		ReverseQuote:   reverseJSON,
		DetectedAt:     time.Now().UTC(),
	}, nil
}
