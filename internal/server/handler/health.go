package handler

import (
	"net/http"
	"time"
)

// HealthHandler serves the service descriptor and health-check endpoints.
type HealthHandler struct {
	network   string
	bot       Runner
	startedAt time.Time
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(network string, bot Runner) *HealthHandler {
	return &HealthHandler{network: network, bot: bot, startedAt: time.Now().UTC()}
}

// Root responds with a small service descriptor including the trading loop's
// running flag.
// GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "gatewaybot",
		"network": h.network,
		"running": h.bot.Running(),
		"endpoints": []string{
			"GET /api/health",
			"GET /api/stats",
			"GET /api/transactions",
			"GET /api/opportunities",
			"POST /api/bot/start",
			"POST /api/bot/stop",
			"GET /ws",
		},
	})
}

// HealthCheck responds with a simple liveness payload.
// GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
