package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func successRecord(profitPct, costSOL, tipSOL float64, refunded bool) TransactionRecord {
	sig := "5KtP3rUnfolded"
	return TransactionRecord{
		Signature:         &sig,
		Status:            TxSuccess,
		ExpectedProfitPct: profitPct,
		CostSOL:           costSOL,
		TipSOL:            tipSOL,
		Refunded:          refunded,
	}
}

func TestStats_RecordTrade_Success(t *testing.T) {
	var s Stats
	s.RecordTrade(successRecord(0.42, 0.000015, 0.00001, false))

	snap := s.Snapshot()
	assert.Equal(t, int64(1), snap.TotalTrades)
	assert.Equal(t, int64(1), snap.SuccessfulTrades)
	assert.InDelta(t, 0.42, snap.TotalProfit, 1e-9)
	assert.InDelta(t, 0.000015, snap.TotalCost, 1e-9)
	assert.Zero(t, snap.RelaySavings)
}

func TestStats_RecordTrade_FailureCountsCostNotProfit(t *testing.T) {
	var s Stats
	rec := successRecord(0.42, 0.000015, 0.00001, false)
	rec.Status = TxFailed
	s.RecordTrade(rec)

	snap := s.Snapshot()
	assert.Equal(t, int64(1), snap.TotalTrades)
	assert.Zero(t, snap.SuccessfulTrades)
	assert.Zero(t, snap.TotalProfit)
	assert.InDelta(t, 0.000015, snap.TotalCost, 1e-9)
}

func TestStats_RecordTrade_RefundCreditsNinetyPercentOfTip(t *testing.T) {
	var s Stats
	// 10,000 lamport tip expressed in SOL.
	s.RecordTrade(successRecord(0.42, 0.000015, 0.00001, true))

	snap := s.Snapshot()
	assert.InDelta(t, 0.000009, snap.RelaySavings, 1e-12)
}

func TestStatsSnapshot_SuccessRate(t *testing.T) {
	var s Stats
	assert.Zero(t, s.Snapshot().SuccessRate())

	s.RecordTrade(successRecord(0.1, 0, 0, false))
	failed := successRecord(0.1, 0, 0, false)
	failed.Status = TxFailed
	s.RecordTrade(failed)

	assert.InDelta(t, 50.0, s.Snapshot().SuccessRate(), 1e-9)
}

func TestLedgerAggregate_SuccessRate(t *testing.T) {
	assert.Zero(t, LedgerAggregate{}.SuccessRate())

	agg := LedgerAggregate{TotalTransactions: 4, SuccessfulTransactions: 3}
	assert.InDelta(t, 75.0, agg.SuccessRate(), 1e-9)
}
