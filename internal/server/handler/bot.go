package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"gatewaybot/internal/domain"
)

// Controller starts and stops the trading loop.
type Controller interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Running() bool
}

// BotHandler exposes lifecycle control over the trading loop.
type BotHandler struct {
	bot Controller
	log *slog.Logger
}

// NewBotHandler creates a BotHandler.
func NewBotHandler(bot Controller, log *slog.Logger) *BotHandler {
	return &BotHandler{bot: bot, log: log}
}

// Start launches the trading loop. Starting an already-running bot is a
// client error. A missing signing key or an underfunded wallet is a fatal
// startup condition on the server side, not a malformed request.
// POST /api/bot/start
func (h *BotHandler) Start(w http.ResponseWriter, r *http.Request) {
	err := h.bot.Start(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"running": true})
	case errors.Is(err, domain.ErrBotRunning):
		writeError(w, http.StatusBadRequest, "bot is already running")
	case errors.Is(err, domain.ErrMissingSigningKey):
		writeError(w, http.StatusInternalServerError, "no signing key configured")
	case errors.Is(err, domain.ErrInsufficientBalance):
		writeError(w, http.StatusInternalServerError, "insufficient wallet balance")
	default:
		h.log.Error("bot start failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start bot")
	}
}

// Stop halts the trading loop. Stopping an idle bot is a client error.
// POST /api/bot/stop
func (h *BotHandler) Stop(w http.ResponseWriter, r *http.Request) {
	err := h.bot.Stop(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"running": false})
	case errors.Is(err, domain.ErrBotNotRunning):
		writeError(w, http.StatusBadRequest, "bot is not running")
	default:
		h.log.Error("bot stop failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to stop bot")
	}
}
