package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/coursehub/internal/model"
)

type NewsletterStore struct {
	db *sql.DB
}

func NewNewsletterStore(db *sql.DB) *NewsletterStore {
	return &NewsletterStore{db: db}
}

func scanSubscriber(scanner interface{ Scan(...any) error }) (*model.Subscriber, error) {
	var sub model.Subscriber
	var interests string
	var active int
	err := scanner.Scan(&sub.ID, &sub.Email, &interests, &active, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	sub.Active = active != 0
	sub.Interests = splitInterests(interests)
	return &sub, nil
}

const subscriberCols = `id, email, interests, active, created_at`

// Subscribe adds email to the list. An existing subscriber is reactivated
// and their interests replaced.
func (s *NewsletterStore) Subscribe(email string, interests []string) (*model.Subscriber, error) {
	email = normalizeEmail(email)
	_, err := s.db.Exec(
		`INSERT INTO newsletter_subscribers (email, interests, active) VALUES (?, ?, 1)
		 ON CONFLICT (email) DO UPDATE SET interests = excluded.interests, active = 1`,
		email, strings.Join(interests, ","),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert subscriber: %w", err)
	}
	return s.GetByEmail(email)
}

// Unsubscribe deactivates email and reports whether it was subscribed.
func (s *NewsletterStore) Unsubscribe(email string) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE newsletter_subscribers SET active = 0 WHERE email = ? AND active = 1`,
		normalizeEmail(email),
	)
	if err != nil {
		return false, fmt.Errorf("unsubscribe: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *NewsletterStore) GetByID(id int64) (*model.Subscriber, error) {
	row := s.db.QueryRow(`SELECT `+subscriberCols+` FROM newsletter_subscribers WHERE id = ?`, id)
	sub, err := scanSubscriber(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscriber: %w", err)
	}
	return sub, nil
}

func (s *NewsletterStore) GetByEmail(email string) (*model.Subscriber, error) {
	row := s.db.QueryRow(`SELECT `+subscriberCols+` FROM newsletter_subscribers WHERE email = ?`, normalizeEmail(email))
	sub, err := scanSubscriber(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscriber by email: %w", err)
	}
	return sub, nil
}

func (s *NewsletterStore) List(activeOnly bool) ([]model.Subscriber, error) {
	q := `SELECT ` + subscriberCols + ` FROM newsletter_subscribers`
	if activeOnly {
		q += ` WHERE active = 1`
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []model.Subscriber
	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func (s *NewsletterStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM newsletter_subscribers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func splitInterests(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
