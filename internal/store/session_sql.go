package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/coursehub/internal/model"
)

// SQL dialects understood by SQLSessionPersister.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// SQLSessionPersister stores sessions in the admin_sessions table of a SQLite
// or Postgres database.
type SQLSessionPersister struct {
	db      *sql.DB
	dialect string
}

func NewSQLSessionPersister(db *sql.DB, dialect string) (*SQLSessionPersister, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if dialect != DialectSQLite && dialect != DialectPostgres {
		return nil, fmt.Errorf("unsupported session dialect %q", dialect)
	}
	p := &SQLSessionPersister{db: db, dialect: dialect}
	if err := p.ensureSchema(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *SQLSessionPersister) ensureSchema() error {
	const q = `
CREATE TABLE IF NOT EXISTS admin_sessions (
	token TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	username TEXT NOT NULL,
	email TEXT NOT NULL,
	role TEXT NOT NULL,
	last_login_at BIGINT NOT NULL,
	created_at BIGINT NOT NULL,
	expires_at BIGINT NOT NULL
)`
	if _, err := p.db.Exec(q); err != nil {
		return fmt.Errorf("ensure admin_sessions schema: %w", err)
	}
	return nil
}

const adminSessionCols = `token, user_id, username, email, role, last_login_at, created_at, expires_at`

func (p *SQLSessionPersister) Load(ctx context.Context) (map[string]model.Session, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT `+adminSessionCols+` FROM admin_sessions`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.Session)
	for rows.Next() {
		var sess model.Session
		var role string
		var lastLogin, created, expires int64
		if err := rows.Scan(&sess.Token, &sess.User.ID, &sess.User.Username, &sess.User.Email, &role, &lastLogin, &created, &expires); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.User.Role = model.Role(role)
		sess.User.LastLoginAt = fromMillis(lastLogin)
		sess.CreatedAt = fromMillis(created)
		sess.ExpiresAt = fromMillis(expires)
		out[sess.Token] = sess
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (p *SQLSessionPersister) Save(ctx context.Context, sess model.Session) error {
	q := p.rebind(`
INSERT INTO admin_sessions (` + adminSessionCols + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (token) DO UPDATE SET expires_at = excluded.expires_at, last_login_at = excluded.last_login_at`)
	_, err := p.db.ExecContext(ctx, q,
		sess.Token, sess.User.ID, sess.User.Username, sess.User.Email, string(sess.User.Role),
		sess.User.LastLoginAt.UnixMilli(), sess.CreatedAt.UnixMilli(), sess.ExpiresAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (p *SQLSessionPersister) Delete(ctx context.Context, tokens ...string) error {
	if len(tokens) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(tokens)), ", ")
	args := make([]any, len(tokens))
	for i, t := range tokens {
		args[i] = t
	}
	q := p.rebind(`DELETE FROM admin_sessions WHERE token IN (` + placeholders + `)`)
	if _, err := p.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}

// rebind rewrites '?' placeholders to $1, $2, ... for Postgres.
func (p *SQLSessionPersister) rebind(query string) string {
	if p.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
