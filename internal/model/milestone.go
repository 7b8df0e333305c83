package model

import (
	"time"
)

type Milestone struct {
	ID          string     `db:"id" json:"id"`
	GoalID      string     `db:"goal_id" json:"goal_id"`
	Title       string     `db:"title" json:"title"`
	Month       int        `db:"month" json:"month"`
	IsCompleted bool       `db:"is_completed" json:"is_completed"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
