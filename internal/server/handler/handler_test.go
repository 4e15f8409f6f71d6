package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatewaybot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeController struct {
	startErr error
	stopErr  error
	running  bool
}

func (f *fakeController) Start(context.Context) error { return f.startErr }
func (f *fakeController) Stop(context.Context) error  { return f.stopErr }
func (f *fakeController) Running() bool               { return f.running }

type fakeTxStore struct {
	recs      []domain.TransactionRecord
	agg       domain.LedgerAggregate
	err       error
	lastLimit int
}

func (f *fakeTxStore) Insert(context.Context, domain.TransactionRecord) (int64, error) {
	return 0, nil
}

func (f *fakeTxStore) ListRecent(_ context.Context, limit int) ([]domain.TransactionRecord, error) {
	f.lastLimit = limit
	return f.recs, f.err
}

func (f *fakeTxStore) Aggregate(context.Context) (domain.LedgerAggregate, error) {
	return f.agg, f.err
}

func (f *fakeTxStore) ListBefore(context.Context, time.Time) ([]domain.TransactionRecord, error) {
	return nil, nil
}

type fakeOppStore struct {
	opps      []domain.Opportunity
	err       error
	lastLimit int
}

func (f *fakeOppStore) Insert(context.Context, domain.Opportunity) error { return nil }

func (f *fakeOppStore) ListRecent(_ context.Context, limit int) ([]domain.Opportunity, error) {
	f.lastLimit = limit
	return f.opps, f.err
}

func (f *fakeOppStore) ListBefore(context.Context, time.Time) ([]domain.Opportunity, error) {
	return nil, nil
}

func TestBotStart_StatusCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"ok", nil, http.StatusOK, `"running":true`},
		{"already running", domain.ErrBotRunning, http.StatusBadRequest, "already running"},
		{"no key", domain.ErrMissingSigningKey, http.StatusInternalServerError, "no signing key"},
		{"low balance", domain.ErrInsufficientBalance, http.StatusInternalServerError, "insufficient wallet balance"},
		{"internal", errors.New("rpc down"), http.StatusInternalServerError, "failed to start"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewBotHandler(&fakeController{startErr: tc.err}, testLogger())
			rr := httptest.NewRecorder()
			h.Start(rr, httptest.NewRequest(http.MethodPost, "/api/bot/start", nil))

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.wantBody)
		})
	}
}

func TestBotStop_StatusCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ok", nil, http.StatusOK},
		{"not running", domain.ErrBotNotRunning, http.StatusBadRequest},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewBotHandler(&fakeController{stopErr: tc.err}, testLogger())
			rr := httptest.NewRecorder()
			h.Stop(rr, httptest.NewRequest(http.MethodPost, "/api/bot/stop", nil))
			assert.Equal(t, tc.wantStatus, rr.Code)
		})
	}
}

func TestRoot_IncludesRunningFlag(t *testing.T) {
	h := NewHealthHandler("devnet", &fakeController{running: true})

	rr := httptest.NewRecorder()
	h.Root(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "devnet", body["network"])
	assert.Equal(t, true, body["running"])

	h = NewHealthHandler("devnet", &fakeController{running: false})
	rr = httptest.NewRecorder()
	h.Root(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["running"])
}

func TestGetStats_FromLedger(t *testing.T) {
	store := &fakeTxStore{agg: domain.LedgerAggregate{
		TotalTransactions:      4,
		SuccessfulTransactions: 3,
		AvgLatencyMs:           150,
		TotalProfit:            1.2,
		TotalCost:              0.04,
		RelaySavings:           0.000036,
	}}
	h := NewStatsHandler(store, &fakeController{running: true}, "mainnet-beta", testLogger())

	rr := httptest.NewRecorder()
	h.GetStats(rr, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, float64(4), body["total_transactions"])
	assert.Equal(t, float64(3), body["successful_transactions"])
	assert.Equal(t, float64(75), body["success_rate"])
	assert.Equal(t, "mainnet-beta", body["network"])
	assert.Equal(t, true, body["bot_running"])
}

func TestGetStats_StoreFailure(t *testing.T) {
	h := NewStatsHandler(&fakeTxStore{err: errors.New("pool closed")}, &fakeController{}, "devnet", testLogger())
	rr := httptest.NewRecorder()
	h.GetStats(rr, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestListTransactions_LimitParsing(t *testing.T) {
	store := &fakeTxStore{}
	h := NewTransactionHandler(store, testLogger())

	rr := httptest.NewRecorder()
	h.ListTransactions(rr, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))
	assert.Equal(t, 50, store.lastLimit)

	rr = httptest.NewRecorder()
	h.ListTransactions(rr, httptest.NewRequest(http.MethodGet, "/api/transactions?limit=10", nil))
	assert.Equal(t, 10, store.lastLimit)

	rr = httptest.NewRecorder()
	h.ListTransactions(rr, httptest.NewRequest(http.MethodGet, "/api/transactions?limit=9999", nil))
	assert.Equal(t, 500, store.lastLimit)

	rr = httptest.NewRecorder()
	h.ListTransactions(rr, httptest.NewRequest(http.MethodGet, "/api/transactions?limit=bogus", nil))
	assert.Equal(t, 50, store.lastLimit)
}

func TestListTransactions_EmptyIsArray(t *testing.T) {
	h := NewTransactionHandler(&fakeTxStore{}, testLogger())
	rr := httptest.NewRecorder()
	h.ListTransactions(rr, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}

func TestListOpportunities_Capped(t *testing.T) {
	store := &fakeOppStore{opps: []domain.Opportunity{{ID: "a"}, {ID: "b"}}}
	h := NewOpportunityHandler(store, testLogger())

	rr := httptest.NewRecorder()
	h.ListOpportunities(rr, httptest.NewRequest(http.MethodGet, "/api/opportunities", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 20, store.lastLimit)

	var opps []domain.Opportunity
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &opps))
	assert.Len(t, opps, 2)
}

func TestListOpportunities_StoreFailure(t *testing.T) {
	h := NewOpportunityHandler(&fakeOppStore{err: errors.New("down")}, testLogger())
	rr := httptest.NewRecorder()
	h.ListOpportunities(rr, httptest.NewRequest(http.MethodGet, "/api/opportunities", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
