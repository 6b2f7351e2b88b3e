package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/coursehub/internal/model"
)

type CourseStore struct {
	db *sql.DB
}

func NewCourseStore(db *sql.DB) *CourseStore {
	return &CourseStore{db: db}
}

func scanCourse(scanner interface{ Scan(...any) error }) (*model.Course, error) {
	var c model.Course
	var published int
	err := scanner.Scan(
		&c.ID, &c.Slug, &c.Title, &c.Summary, &c.Level,
		&c.PriceCents, &c.DurationWeeks, &published, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Published = published != 0
	return &c, nil
}

const courseCols = `id, slug, title, summary, level, price_cents, duration_weeks, published, created_at`

func (s *CourseStore) Create(c model.Course) (*model.Course, error) {
	result, err := s.db.Exec(
		`INSERT INTO courses (slug, title, summary, level, price_cents, duration_weeks, published) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Slug, c.Title, c.Summary, c.Level, c.PriceCents, c.DurationWeeks, boolInt(c.Published),
	)
	if err != nil {
		return nil, fmt.Errorf("insert course: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *CourseStore) GetByID(id int64) (*model.Course, error) {
	row := s.db.QueryRow(`SELECT `+courseCols+` FROM courses WHERE id = ?`, id)
	c, err := scanCourse(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

// GetBySlug returns a published course.
func (s *CourseStore) GetBySlug(slug string) (*model.Course, error) {
	row := s.db.QueryRow(`SELECT `+courseCols+` FROM courses WHERE slug = ? AND published = 1`, slug)
	c, err := scanCourse(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get course by slug: %w", err)
	}
	return c, nil
}

// List returns courses ordered by title. Unpublished courses are included
// only when includeDrafts is set.
func (s *CourseStore) List(includeDrafts bool) ([]model.Course, error) {
	q := `SELECT ` + courseCols + ` FROM courses`
	if !includeDrafts {
		q += ` WHERE published = 1`
	}
	q += ` ORDER BY title`

	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

func (s *CourseStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SlugExists reports whether slug is taken by a row other than excludeID.
func (s *CourseStore) SlugExists(slug string, excludeID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM courses WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return count > 0, nil
}
