package model

import "time"

type Enrollment struct {
	ID         int64     `json:"id"`
	CourseSlug string    `json:"course_slug"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

var EnrollmentStatuses = []string{"pending", "contacted", "enrolled", "rejected"}

type DemoBooking struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Company       string    `json:"company"`
	PreferredDate string    `json:"preferred_date"`
	Notes         string    `json:"notes"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

var DemoBookingStatuses = []string{"pending", "confirmed", "completed", "cancelled"}
