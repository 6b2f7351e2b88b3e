package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/coursehub/internal/auth"
	"github.com/dukerupert/coursehub/internal/response"
)

// RequireAdmin lets a request through only when it carries a session for an
// admin role. The resolved user is placed in the request context.
func RequireAdmin(gate *auth.Gate, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rb := response.From(r.Context())

			user, err := gate.RequireAdmin(r)
			switch {
			case errors.Is(err, auth.ErrAuthenticationRequired):
				response.Write(w, rb.Unauthorized("Not authenticated"))
				return
			case errors.Is(err, auth.ErrForbiddenRole):
				response.Write(w, rb.Forbidden("Admin access required"))
				return
			case err != nil:
				logger.Error("resolve session", "error", err, "path", r.URL.Path)
				response.Write(w, rb.InternalError(""))
				return
			}

			ctx := auth.WithUser(r.Context(), *user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
