package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/coursehub/internal/response"
	"github.com/dukerupert/coursehub/internal/store"
)

type AdminHandler struct {
	stats    *store.StatsStore
	sessions *store.SessionStore
	logger   *slog.Logger
}

func NewAdminHandler(stats *store.StatsStore, ss *store.SessionStore, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{stats: stats, sessions: ss, logger: logger}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Stats()
	if err != nil {
		serverError(w, r, h.logger, "load stats", err)
		return
	}
	response.Write(w, response.From(r.Context()).Success(st, ""))
}

// CleanupSessions purges expired admin sessions on demand.
func (h *AdminHandler) CleanupSessions(w http.ResponseWriter, r *http.Request) {
	n, err := h.sessions.CleanupExpired(r.Context())
	if err != nil {
		serverError(w, r, h.logger, "cleanup sessions", err)
		return
	}
	h.logger.Info("expired sessions removed", "count", n)
	response.Write(w, response.From(r.Context()).Success(map[string]int{
		"removed":   n,
		"remaining": h.sessions.Count(),
	}, "Expired sessions removed"))
}

// Health reports liveness along with the database status.
func Health(ping func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rb := response.From(r.Context())
		if err := ping(); err != nil {
			resp := rb.InternalError("database unavailable")
			resp.Status = http.StatusServiceUnavailable
			response.Write(w, resp)
			return
		}
		response.Write(w, rb.Success(map[string]string{"status": "ok"}, ""))
	}
}
