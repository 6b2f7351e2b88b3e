package model

import "time"

type Subscriber struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Interests []string  `json:"interests"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats holds the counters shown on the admin dashboard.
type Stats struct {
	Courses           int   `json:"courses"`
	BlogPosts         int   `json:"blog_posts"`
	BlogViews         int64 `json:"blog_views"`
	Enrollments       int   `json:"enrollments"`
	PendingEnrollment int   `json:"pending_enrollments"`
	DemoBookings      int   `json:"demo_bookings"`
	Subscribers       int   `json:"active_subscribers"`
}
