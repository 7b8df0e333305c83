package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/northstarhq/northstar/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(userID, goalID string) (*model.Goal, error)
	Goals(userID, status string) ([]*model.Goal, error)
	CountByStatus(userID, status string) (int, error)
	UpdateStatus(userID, goalID, status string) error
	Delete(userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, title, description, category, target_date, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Category,
		goal.TargetDate,
		goal.Status,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *goalRepository) ByID(userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.Get(goal, query, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

func (r *goalRepository) Goals(userID, status string) ([]*model.Goal, error) {
	var goals []*model.Goal

	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID}

	if status != "" {
		query = `SELECT * FROM goals WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC`
		args = append(args, status)
	}

	err := r.db.Select(&goals, query, args...)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) CountByStatus(userID, status string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM goals WHERE user_id = $1 AND status = $2`
	err := r.db.QueryRow(query, userID, status).Scan(&count)
	return count, err
}

func (r *goalRepository) UpdateStatus(userID, goalID, status string) error {
	query := `UPDATE goals SET status = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`

	result, err := r.db.Exec(query, status, time.Now(), goalID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

// Delete removes the goal; milestones and check-ins go with it via
// ON DELETE CASCADE.
func (r *goalRepository) Delete(userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, goalID, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}
