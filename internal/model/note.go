package model

import "time"

// DayNote is the free-form note attached to a single calendar day.
type DayNote struct {
	UserID    int64     `json:"user_id"`
	Date      string    `json:"date"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note is a general note not tied to any date.
type Note struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
