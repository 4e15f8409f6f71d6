package domain

import "sync"

// StatsSnapshot is a point-in-time copy of the running bot's counters.
type StatsSnapshot struct {
	TotalTrades      int64   `json:"total_trades"`
	SuccessfulTrades int64   `json:"successful_trades"`
	TotalProfit      float64 `json:"total_profit"`
	TotalCost        float64 `json:"total_cost"`
	RelaySavings     float64 `json:"relay_savings"`
}

// SuccessRate returns successfulTrades / totalTrades as a percentage, 0 when
// no trades have been recorded.
func (s StatsSnapshot) SuccessRate() float64 {
	if s.TotalTrades == 0 {
		return 0
	}
	return float64(s.SuccessfulTrades) / float64(s.TotalTrades) * 100
}

// Stats tracks running counters mirrored from executed trades. Counters are
// monotonically non-decreasing and reset only on process restart. The trade
// loop is the sole writer, but the control surface reads concurrently, so
// every access goes through the mutex.
type Stats struct {
	mu   sync.Mutex
	snap StatsSnapshot
}

// RecordTrade folds one finalized trade into the counters. Profit is only
// accumulated on success; cost is accumulated always. When the relay reports
// a tip refund, 90% of the tip is credited as relay savings -- the refund is
// never assumed to be exactly the tip amount.
func (s *Stats) RecordTrade(rec TransactionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.TotalTrades++
	if rec.Status == TxSuccess {
		s.snap.SuccessfulTrades++
		s.snap.TotalProfit += rec.ExpectedProfitPct
	}
	s.snap.TotalCost += rec.CostSOL
	if rec.Refunded {
		s.snap.RelaySavings += rec.TipSOL * 0.9
	}
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}
