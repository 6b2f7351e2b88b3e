package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/coursehub/internal/model"
)

type stubSessions struct {
	users map[string]model.AdminUser
	err   error
}

func (s *stubSessions) Get(_ context.Context, token string) (*model.AdminUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[token]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest("GET", "/api/admin/enrollments", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	return req
}

func newStubGate() *Gate {
	return NewGate(&stubSessions{users: map[string]model.AdminUser{
		"admin-token":  {ID: "1", Username: "admin", Role: model.RoleAdmin},
		"super-token":  {ID: "2", Username: "root", Role: model.RoleSuperAdmin},
		"editor-token": {ID: "3", Username: "ed", Role: "editor"},
	}})
}

func TestCurrentUserNoCookie(t *testing.T) {
	u, err := newStubGate().CurrentUser(requestWithToken(""))
	if err != nil {
		t.Fatalf("CurrentUser() error: %v", err)
	}
	if u != nil {
		t.Errorf("expected no user, got %+v", u)
	}
}

func TestCurrentUserValid(t *testing.T) {
	u, err := newStubGate().CurrentUser(requestWithToken("admin-token"))
	if err != nil {
		t.Fatalf("CurrentUser() error: %v", err)
	}
	if u == nil || u.Username != "admin" {
		t.Fatalf("expected admin user, got %+v", u)
	}
}

func TestRequireAuth(t *testing.T) {
	g := newStubGate()

	if _, err := g.RequireAuth(requestWithToken("")); !errors.Is(err, ErrAuthenticationRequired) {
		t.Errorf("no cookie: err = %v, want ErrAuthenticationRequired", err)
	}
	if _, err := g.RequireAuth(requestWithToken("unknown")); !errors.Is(err, ErrAuthenticationRequired) {
		t.Errorf("unknown token: err = %v, want ErrAuthenticationRequired", err)
	}
	if _, err := g.RequireAuth(requestWithToken("editor-token")); err != nil {
		t.Errorf("editor token should authenticate: %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	g := newStubGate()

	for _, token := range []string{"admin-token", "super-token"} {
		if _, err := g.RequireAdmin(requestWithToken(token)); err != nil {
			t.Errorf("RequireAdmin(%s) error: %v", token, err)
		}
	}
	if _, err := g.RequireAdmin(requestWithToken("editor-token")); !errors.Is(err, ErrForbiddenRole) {
		t.Errorf("editor: err = %v, want ErrForbiddenRole", err)
	}
	if _, err := g.RequireAdmin(requestWithToken("")); !errors.Is(err, ErrAuthenticationRequired) {
		t.Errorf("no cookie: err = %v, want ErrAuthenticationRequired", err)
	}
}

func TestRequireAuthStoreFailure(t *testing.T) {
	storeErr := errors.New("disk on fire")
	g := NewGate(&stubSessions{err: storeErr})

	_, err := g.RequireAuth(requestWithToken("admin-token"))
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want store error", err)
	}
	if errors.Is(err, ErrAuthenticationRequired) {
		t.Error("store failure must not be reported as unauthenticated")
	}
}
