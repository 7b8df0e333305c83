package model

import (
	"time"
)

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusAbandoned = "abandoned"
)

const (
	CategoryHealth   = "health"
	CategoryCareer   = "career"
	CategoryFinance  = "finance"
	CategoryPersonal = "personal"
	CategoryLearning = "learning"
)

type Goal struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	Category    string     `db:"category" json:"category"`
	TargetDate  *time.Time `db:"target_date" json:"target_date"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// ValidGoalStatus reports whether s is one of the three goal states.
func ValidGoalStatus(s string) bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusAbandoned:
		return true
	}
	return false
}

// ValidCategory reports whether c is a known goal category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryHealth, CategoryCareer, CategoryFinance, CategoryPersonal, CategoryLearning:
		return true
	}
	return false
}
