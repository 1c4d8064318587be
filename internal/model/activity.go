package model

import (
	"time"

	"github.com/bithab/bithab/internal/habit"
)

type Activity struct {
	ID            string        `json:"id"`
	UserID        int64         `json:"user_id"`
	Name          string        `json:"name"`
	SortOrder     int           `json:"sort_order"`
	SubActivities []SubActivity `json:"sub_activities"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type SubActivity struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activity_id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Habit converts the persisted activity to its pure computation shape,
// preserving the declared sub-activity order.
func (a Activity) Habit() habit.Activity {
	subs := make([]habit.SubActivity, len(a.SubActivities))
	for i, s := range a.SubActivities {
		subs[i] = habit.SubActivity{ID: s.ID, Name: s.Name, Color: s.Color}
	}
	return habit.Activity{ID: a.ID, Name: a.Name, SubActivities: subs}
}
