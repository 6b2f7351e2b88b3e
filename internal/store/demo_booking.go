package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/coursehub/internal/model"
)

type DemoBookingStore struct {
	db *sql.DB
}

func NewDemoBookingStore(db *sql.DB) *DemoBookingStore {
	return &DemoBookingStore{db: db}
}

func scanDemoBooking(scanner interface{ Scan(...any) error }) (*model.DemoBooking, error) {
	var b model.DemoBooking
	err := scanner.Scan(
		&b.ID, &b.Name, &b.Email, &b.Phone, &b.Company,
		&b.PreferredDate, &b.Notes, &b.Status, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

const demoBookingCols = `id, name, email, phone, company, preferred_date, notes, status, created_at`

func (s *DemoBookingStore) Create(b model.DemoBooking) (*model.DemoBooking, error) {
	result, err := s.db.Exec(
		`INSERT INTO demo_bookings (name, email, phone, company, preferred_date, notes) VALUES (?, ?, ?, ?, ?, ?)`,
		b.Name, b.Email, b.Phone, b.Company, b.PreferredDate, b.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert demo booking: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *DemoBookingStore) GetByID(id int64) (*model.DemoBooking, error) {
	row := s.db.QueryRow(`SELECT `+demoBookingCols+` FROM demo_bookings WHERE id = ?`, id)
	b, err := scanDemoBooking(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get demo booking: %w", err)
	}
	return b, nil
}

func (s *DemoBookingStore) List(status string) ([]model.DemoBooking, error) {
	q := `SELECT ` + demoBookingCols + ` FROM demo_bookings`
	var args []any
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list demo bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.DemoBooking
	for rows.Next() {
		b, err := scanDemoBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan demo booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (s *DemoBookingStore) UpdateStatus(id int64, status string) (*model.DemoBooking, error) {
	_, err := s.db.Exec(`UPDATE demo_bookings SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return nil, fmt.Errorf("update demo booking status: %w", err)
	}
	return s.GetByID(id)
}

func (s *DemoBookingStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM demo_bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete demo booking: %w", err)
	}
	return nil
}
