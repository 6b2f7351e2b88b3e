package model

import "time"

type Course struct {
	ID            int64     `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary"`
	Level         string    `json:"level"`
	PriceCents    int64     `json:"price_cents"`
	DurationWeeks int       `json:"duration_weeks"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"created_at"`
}
