package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/coursehub/internal/model"
)

type StatsStore struct {
	db *sql.DB
}

func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Stats gathers the dashboard counters in one round trip.
func (s *StatsStore) Stats() (*model.Stats, error) {
	var st model.Stats
	err := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM blog_posts),
			(SELECT COALESCE(SUM(views), 0) FROM blog_posts),
			(SELECT COUNT(*) FROM enrollments),
			(SELECT COUNT(*) FROM enrollments WHERE status = 'pending'),
			(SELECT COUNT(*) FROM demo_bookings),
			(SELECT COUNT(*) FROM newsletter_subscribers WHERE active = 1)`,
	).Scan(
		&st.Courses, &st.BlogPosts, &st.BlogViews, &st.Enrollments,
		&st.PendingEnrollment, &st.DemoBookings, &st.Subscribers,
	)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	return &st, nil
}
