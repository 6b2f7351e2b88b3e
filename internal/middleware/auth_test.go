package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/coursehub/internal/auth"
	"github.com/dukerupert/coursehub/internal/database"
	"github.com/dukerupert/coursehub/internal/model"
	"github.com/dukerupert/coursehub/internal/store"
)

func setupAuthMiddleware(t *testing.T) (*store.SessionStore, func(http.Handler) http.Handler) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	p, err := store.NewSQLSessionPersister(db, store.DialectSQLite)
	if err != nil {
		t.Fatalf("new persister: %v", err)
	}
	ss, err := store.NewSessionStore(context.Background(), p)
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ss, RequireAdmin(auth.NewGate(ss), logger)
}

func decodeError(t *testing.T, body io.Reader) string {
	t.Helper()
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Error("success = true, want false")
	}
	return resp.Error
}

func TestRequireAdminNoCookie(t *testing.T) {
	_, mw := setupAuthMiddleware(t)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/admin/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if msg := decodeError(t, rec.Body); msg != "Not authenticated" {
		t.Errorf("error = %q, want %q", msg, "Not authenticated")
	}
}

func TestRequireAdminInvalidToken(t *testing.T) {
	_, mw := setupAuthMiddleware(t)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "invalid-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAdminValidSession(t *testing.T) {
	ss, mw := setupAuthMiddleware(t)

	sess, err := ss.Create(context.Background(), model.AdminUser{ID: "admin", Username: "admin", Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	var got model.AdminUser
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := auth.UserFromContext(r.Context())
		if !ok {
			t.Fatal("expected user in request context")
		}
		got = u
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got.Username != "admin" {
		t.Errorf("username = %q, want %q", got.Username, "admin")
	}
}

func TestRequireAdminDestroyedSession(t *testing.T) {
	ss, mw := setupAuthMiddleware(t)

	sess, _ := ss.Create(context.Background(), model.AdminUser{ID: "admin", Username: "admin", Role: model.RoleAdmin})
	ss.Destroy(context.Background(), sess.Token)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAdminWrongRole(t *testing.T) {
	ss, mw := setupAuthMiddleware(t)

	sess, _ := ss.Create(context.Background(), model.AdminUser{ID: "e1", Username: "editor", Role: "editor"})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

type brokenSessions struct{}

func (brokenSessions) Get(ctx context.Context, token string) (*model.AdminUser, error) {
	return nil, errors.New("database is locked")
}

func TestRequireAdminStoreFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := RequireAdmin(auth.NewGate(brokenSessions{}), logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "anything"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
