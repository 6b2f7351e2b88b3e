package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dukerupert/coursehub/internal/config"
	"github.com/dukerupert/coursehub/internal/database"
	"github.com/dukerupert/coursehub/internal/store"
)

// OpenSessionStore builds the session store on the configured backend. The
// returned close function releases backend connections other than db.
func OpenSessionStore(ctx context.Context, cfg config.Sessions, db *sql.DB, logger *slog.Logger) (*store.SessionStore, func() error, error) {
	noop := func() error { return nil }

	var (
		persister store.SessionPersister
		closer    = noop
	)
	switch cfg.Backend {
	case config.BackendSQLite:
		p, err := store.NewSQLSessionPersister(db, store.DialectSQLite)
		if err != nil {
			return nil, noop, err
		}
		persister = p
	case config.BackendPostgres:
		pg, err := database.OpenPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, noop, err
		}
		p, err := store.NewSQLSessionPersister(pg, store.DialectPostgres)
		if err != nil {
			pg.Close()
			return nil, noop, err
		}
		persister, closer = p, pg.Close
	case config.BackendRedis:
		p, err := store.NewRedisSessionPersister(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		persister, closer = p, p.Close
	default:
		return nil, noop, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}

	ss, err := store.NewSessionStore(ctx, persister)
	if err != nil {
		closer()
		return nil, noop, err
	}
	logger.Info("session store ready", "backend", cfg.Backend, "sessions", ss.Count())
	return ss, closer, nil
}
