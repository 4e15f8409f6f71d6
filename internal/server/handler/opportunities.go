package handler

import (
	"log/slog"
	"net/http"

	"gatewaybot/internal/domain"
)

// opportunityLimit caps the opportunity feed size.
const opportunityLimit = 20

// OpportunityHandler serves the detected-opportunity feed.
type OpportunityHandler struct {
	opportunities domain.OpportunityStore
	log           *slog.Logger
}

// NewOpportunityHandler creates an OpportunityHandler.
func NewOpportunityHandler(opportunities domain.OpportunityStore, log *slog.Logger) *OpportunityHandler {
	return &OpportunityHandler{opportunities: opportunities, log: log}
}

// ListOpportunities returns the most recently detected opportunities, newest
// first, capped at 20 entries.
// GET /api/opportunities
func (h *OpportunityHandler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	opps, err := h.opportunities.ListRecent(r.Context(), opportunityLimit)
	if err != nil {
		h.log.Error("list opportunities failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list opportunities")
		return
	}
	if opps == nil {
		opps = []domain.Opportunity{}
	}
	writeJSON(w, http.StatusOK, opps)
}
