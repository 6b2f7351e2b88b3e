package feed

import (
	"log/slog"
	"net/http"
	"time"

	ws "github.com/coder/websocket"
	"github.com/dukerupert/coursehub/internal/auth"
)

// Handler upgrades an authenticated admin request to a feed subscription.
// originPatterns restricts which sites may open the socket; an empty list
// allows same-host origins only.
func Handler(hub *Hub, logger *slog.Logger, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The feed outlives the server's per-request deadlines.
		rc := http.NewResponseController(w)
		rc.SetReadDeadline(time.Time{})
		rc.SetWriteDeadline(time.Time{})

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			logger.Warn("feed accept", "error", err)
			return
		}

		client := NewClient(hub, conn, auth.Username(r.Context()))
		client.Run(r.Context())
	}
}
