package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/coursehub/internal/model"
)

type EnrollmentStore struct {
	db *sql.DB
}

func NewEnrollmentStore(db *sql.DB) *EnrollmentStore {
	return &EnrollmentStore{db: db}
}

func scanEnrollment(scanner interface{ Scan(...any) error }) (*model.Enrollment, error) {
	var e model.Enrollment
	err := scanner.Scan(
		&e.ID, &e.CourseSlug, &e.Name, &e.Email, &e.Phone,
		&e.Message, &e.Status, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const enrollmentCols = `id, course_slug, name, email, phone, message, status, created_at`

// Create stores a new enrollment request with status pending.
func (s *EnrollmentStore) Create(e model.Enrollment) (*model.Enrollment, error) {
	result, err := s.db.Exec(
		`INSERT INTO enrollments (course_slug, name, email, phone, message) VALUES (?, ?, ?, ?, ?)`,
		e.CourseSlug, e.Name, e.Email, e.Phone, e.Message,
	)
	if err != nil {
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *EnrollmentStore) GetByID(id int64) (*model.Enrollment, error) {
	row := s.db.QueryRow(`SELECT `+enrollmentCols+` FROM enrollments WHERE id = ?`, id)
	e, err := scanEnrollment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	return e, nil
}

// List returns enrollments newest first, optionally filtered by status.
func (s *EnrollmentStore) List(status string) ([]model.Enrollment, error) {
	q := `SELECT ` + enrollmentCols + ` FROM enrollments`
	var args []any
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, *e)
	}
	return enrollments, rows.Err()
}

func (s *EnrollmentStore) UpdateStatus(id int64, status string) (*model.Enrollment, error) {
	_, err := s.db.Exec(`UPDATE enrollments SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return nil, fmt.Errorf("update enrollment status: %w", err)
	}
	return s.GetByID(id)
}

func (s *EnrollmentStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM enrollments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}
