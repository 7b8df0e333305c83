package model

import (
	"time"
)

const (
	MoodGreat      = "great"
	MoodGood       = "good"
	MoodOkay       = "okay"
	MoodStruggling = "struggling"
)

type Checkin struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	GoalID       string    `db:"goal_id" json:"goal_id"`
	WeekNumber   int       `db:"week_number" json:"week_number"`
	ProgressNote *string   `db:"progress_note" json:"progress_note"`
	Mood         string    `db:"mood" json:"mood"`
	AIFeedback   *string   `db:"ai_feedback" json:"ai_feedback"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ValidMood reports whether m is one of the four check-in moods.
func ValidMood(m string) bool {
	switch m {
	case MoodGreat, MoodGood, MoodOkay, MoodStruggling:
		return true
	}
	return false
}
