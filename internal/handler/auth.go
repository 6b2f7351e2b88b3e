package handler

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/coursehub/internal/auth"
	"github.com/dukerupert/coursehub/internal/model"
	"github.com/dukerupert/coursehub/internal/response"
	"github.com/dukerupert/coursehub/internal/store"
	"github.com/dukerupert/coursehub/internal/validate"
)

// CookieOptions controls the attributes of the admin session cookie.
type CookieOptions struct {
	Domain string
	Secure bool
}

type AuthHandler struct {
	sessions *store.SessionStore
	gate     *auth.Gate
	limiter  *auth.LoginLimiter
	creds    auth.Credentials
	admin    model.AdminUser
	cookie   CookieOptions
	clientIP func(*http.Request) string
	logger   *slog.Logger
}

func NewAuthHandler(
	ss *store.SessionStore,
	gate *auth.Gate,
	limiter *auth.LoginLimiter,
	creds auth.Credentials,
	admin model.AdminUser,
	cookie CookieOptions,
	clientIP func(*http.Request) string,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		sessions: ss,
		gate:     gate,
		limiter:  limiter,
		creds:    creds,
		admin:    admin,
		cookie:   cookie,
		clientIP: clientIP,
		logger:   logger,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())
	ip := h.clientIP(r)

	if !h.limiter.Check(ip) {
		h.rateLimited(w, rb, ip)
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}

	res := validate.New().
		Required("username", req.Username).
		Required("password", req.Password).
		Result()
	if !res.Valid {
		response.Write(w, rb.ValidationError(res.Errors))
		return
	}

	// The attempt is counted as a failure before the credentials are
	// evaluated and cleared again on success.
	if !h.limiter.Begin(ip) {
		h.rateLimited(w, rb, ip)
		return
	}
	if !h.creds.Validate(req.Username, req.Password) {
		h.logger.Warn("login failed", "remote", ip)
		response.Write(w, rb.Unauthorized("Invalid credentials"))
		return
	}
	h.limiter.Record(ip, true)

	user := h.admin
	user.LastLoginAt = time.Now().UTC()
	sess, err := h.sessions.Create(r.Context(), user)
	if err != nil {
		serverError(w, r, h.logger, "create session", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   int(store.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})

	h.logger.Info("admin logged in", "user", user.Username, "remote", ip)
	response.Write(w, rb.Success(map[string]any{"user": user}, "Login successful"))
}

func (h *AuthHandler) rateLimited(w http.ResponseWriter, rb *response.Builder, ip string) {
	retry := h.limiter.RetryAfter(ip)
	w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
	h.logger.Warn("login rate limited", "remote", ip)
	response.Write(w, rb.TooManyRequests("Too many login attempts. Please try again later."))
}

func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	user, err := h.gate.CurrentUser(r)
	if err != nil {
		serverError(w, r, h.logger, "resolve session", err)
		return
	}
	if user == nil {
		response.Write(w, rb.Unauthorized("Not authenticated"))
		return
	}
	response.Write(w, rb.Success(map[string]any{"user": user}, ""))
}

// Logout always succeeds from the client's point of view; the cookie is
// cleared even when the session could not be removed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			h.logger.Error("destroy session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})

	response.Write(w, response.From(r.Context()).Success(nil, "Logged out"))
}
