package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/northstarhq/northstar/internal/model"
)

var (
	ErrCheckinNotFound = errors.New("check-in not found")
)

type CheckinRepository interface {
	Create(checkin *model.Checkin) error
	Checkins(userID, goalID string) ([]*model.Checkin, error)
	Latest(userID string) (*model.Checkin, error)
	UpdateFeedback(userID, checkinID, feedback string) error
}

type checkinRepository struct {
	db *sqlx.DB
}

func NewCheckinRepository(db *sqlx.DB) CheckinRepository {
	return &checkinRepository{db: db}
}

func (r *checkinRepository) Create(checkin *model.Checkin) error {
	query := `INSERT INTO checkins (id, user_id, goal_id, week_number, progress_note, mood, ai_feedback, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		checkin.ID,
		checkin.UserID,
		checkin.GoalID,
		checkin.WeekNumber,
		checkin.ProgressNote,
		checkin.Mood,
		checkin.AIFeedback,
		checkin.CreatedAt,
	)

	return err
}

func (r *checkinRepository) Checkins(userID, goalID string) ([]*model.Checkin, error) {
	var checkins []*model.Checkin

	query := `SELECT * FROM checkins WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID}

	if goalID != "" {
		query = `SELECT * FROM checkins WHERE user_id = $1 AND goal_id = $2 ORDER BY created_at DESC`
		args = append(args, goalID)
	}

	err := r.db.Select(&checkins, query, args...)
	if err != nil {
		return nil, err
	}

	return checkins, nil
}

func (r *checkinRepository) Latest(userID string) (*model.Checkin, error) {
	var checkins []*model.Checkin
	query := `SELECT * FROM checkins WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`

	err := r.db.Select(&checkins, query, userID)
	if err != nil {
		return nil, err
	}
	if len(checkins) == 0 {
		return nil, ErrCheckinNotFound
	}

	return checkins[0], nil
}

// UpdateFeedback writes AI feedback onto the check-in, filtered by both the
// check-in id and the owning user. A zero-row match (wrong id or wrong owner)
// is a failure, never a silent no-op.
func (r *checkinRepository) UpdateFeedback(userID, checkinID, feedback string) error {
	query := `UPDATE checkins SET ai_feedback = $1 WHERE id = $2 AND user_id = $3`

	result, err := r.db.Exec(query, feedback, checkinID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrCheckinNotFound
	}

	return nil
}
