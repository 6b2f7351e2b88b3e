package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/dukerupert/coursehub/internal/model"
)

// SessionCookieName is the cookie carrying the opaque admin session token.
const SessionCookieName = "admin-session"

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrForbiddenRole          = errors.New("forbidden role")
)

// SessionGetter resolves a session token to its admin. A nil user with a nil
// error means the token is unknown or expired.
type SessionGetter interface {
	Get(ctx context.Context, token string) (*model.AdminUser, error)
}

// Gate derives the current admin from a request's session cookie.
type Gate struct {
	sessions SessionGetter
}

func NewGate(sessions SessionGetter) *Gate {
	return &Gate{sessions: sessions}
}

// CurrentUser returns the admin for the request, nil when there is no valid
// session, or an error when the session store could not be consulted.
func (g *Gate) CurrentUser(r *http.Request) (*model.AdminUser, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	return g.sessions.Get(r.Context(), cookie.Value)
}

// RequireAuth fails with ErrAuthenticationRequired when the request carries
// no valid session.
func (g *Gate) RequireAuth(r *http.Request) (*model.AdminUser, error) {
	user, err := g.CurrentUser(r)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAuthenticationRequired
	}
	return user, nil
}

// RequireAdmin is RequireAuth plus a role check.
func (g *Gate) RequireAdmin(r *http.Request) (*model.AdminUser, error) {
	user, err := g.RequireAuth(r)
	if err != nil {
		return nil, err
	}
	if !user.Role.IsAdmin() {
		return nil, ErrForbiddenRole
	}
	return user, nil
}
