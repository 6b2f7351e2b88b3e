package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/dukerupert/coursehub/internal/model"
)

const SessionTTL = 24 * time.Hour

// SessionPersister is the durable side of the session store. Save must be an
// upsert and Delete must ignore unknown tokens.
type SessionPersister interface {
	Load(ctx context.Context) (map[string]model.Session, error)
	Save(ctx context.Context, sess model.Session) error
	Delete(ctx context.Context, tokens ...string) error
}

// SessionStore keeps admin sessions in memory and writes every change
// through to its persister, so sessions survive a restart.
type SessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]model.Session
	persister SessionPersister
	ttl       time.Duration
	nowFunc   func() time.Time
}

// NewSessionStore loads the persisted sessions, dropping any that expired
// while the process was down.
func NewSessionStore(ctx context.Context, p SessionPersister) (*SessionStore, error) {
	s := &SessionStore{
		sessions:  make(map[string]model.Session),
		persister: p,
		ttl:       SessionTTL,
		nowFunc:   time.Now,
	}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SessionStore) reload(ctx context.Context) error {
	state, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	s.mu.Lock()
	s.sessions = state
	if s.sessions == nil {
		s.sessions = make(map[string]model.Session)
	}
	s.mu.Unlock()

	if _, err := s.CleanupExpired(ctx); err != nil {
		return err
	}
	return nil
}

// Create issues a new session for user. The session is only kept once it has
// been persisted.
func (s *SessionStore) Create(ctx context.Context, user model.AdminUser) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var token string
	for {
		t, err := generateToken()
		if err != nil {
			return model.Session{}, err
		}
		if _, taken := s.sessions[t]; !taken {
			token = t
			break
		}
	}

	now := s.nowFunc().UTC()
	sess := model.Session{
		Token:     token,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.persister.Save(ctx, sess); err != nil {
		return model.Session{}, fmt.Errorf("persist session: %w", err)
	}
	s.sessions[token] = sess
	return sess, nil
}

// Get returns the admin owning token, or nil if the token is unknown or
// expired. Expired sessions are removed on sight.
func (s *SessionStore) Get(ctx context.Context, token string) (*model.AdminUser, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if sess.Expired(s.nowFunc()) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.persister.Delete(ctx, token); err != nil {
			return nil, fmt.Errorf("delete expired session: %w", err)
		}
		delete(s.sessions, token)
		return nil, nil
	}

	user := sess.User
	return &user, nil
}

// Destroy removes token. Unknown tokens are not an error. The session stays
// in memory when the persister cannot delete it, so memory never holds less
// than what a restart would reload.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persister.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	delete(s.sessions, token)
	return nil
}

// CleanupExpired removes every session past its expiry and returns how many
// were removed.
func (s *SessionStore) CleanupExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	var expired []string
	for token, sess := range s.sessions {
		if sess.Expired(now) {
			expired = append(expired, token)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}

	if err := s.persister.Delete(ctx, expired...); err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	for _, token := range expired {
		delete(s.sessions, token)
	}
	return len(expired), nil
}

// Count returns the number of sessions currently held, expired or not.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// generateToken returns 32 crypto-random bytes, hex-encoded.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
