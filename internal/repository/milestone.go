package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/northstarhq/northstar/internal/model"
)

var (
	ErrMilestoneNotFound = errors.New("milestone not found")
)

// MilestoneCounts holds completion aggregates for progress metrics.
type MilestoneCounts struct {
	Total     int `db:"total"`
	Completed int `db:"completed"`
}

type MilestoneRepository interface {
	CreateBatch(milestones []*model.Milestone) error
	ByGoal(goalID string) ([]*model.Milestone, error)
	ByIDForUser(userID, milestoneID string) (*model.Milestone, error)
	SetCompletion(milestoneID string, completed bool, completedAt *time.Time) error
	CountsByGoal(goalID string) (MilestoneCounts, error)
	CountsByUser(userID string) (MilestoneCounts, error)
}

type milestoneRepository struct {
	db *sqlx.DB
}

func NewMilestoneRepository(db *sqlx.DB) MilestoneRepository {
	return &milestoneRepository{db: db}
}

// CreateBatch inserts the generated milestones in a single transaction.
func (r *milestoneRepository) CreateBatch(milestones []*model.Milestone) error {
	if len(milestones) == 0 {
		return errors.New("no milestones to insert")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO milestones (id, goal_id, title, month, is_completed, completed_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for i, m := range milestones {
		_, err := tx.Exec(query, m.ID, m.GoalID, m.Title, m.Month, m.IsCompleted, m.CompletedAt, m.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert milestone %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

func (r *milestoneRepository) ByGoal(goalID string) ([]*model.Milestone, error) {
	var milestones []*model.Milestone
	query := `SELECT * FROM milestones WHERE goal_id = $1 ORDER BY month ASC, created_at ASC`

	err := r.db.Select(&milestones, query, goalID)
	if err != nil {
		return nil, err
	}

	return milestones, nil
}

// ByIDForUser loads a milestone only if its parent goal belongs to userID.
// Ownership is transitive through the goal, so the join is the authorization
// check.
func (r *milestoneRepository) ByIDForUser(userID, milestoneID string) (*model.Milestone, error) {
	milestone := &model.Milestone{}
	query := `SELECT m.* FROM milestones m
	          JOIN goals g ON g.id = m.goal_id
	          WHERE m.id = $1 AND g.user_id = $2`

	err := r.db.Get(milestone, query, milestoneID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrMilestoneNotFound
	}
	if err != nil {
		return nil, err
	}

	return milestone, nil
}

func (r *milestoneRepository) SetCompletion(milestoneID string, completed bool, completedAt *time.Time) error {
	query := `UPDATE milestones SET is_completed = $1, completed_at = $2 WHERE id = $3`

	result, err := r.db.Exec(query, completed, completedAt, milestoneID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMilestoneNotFound
	}

	return nil
}

func (r *milestoneRepository) CountsByGoal(goalID string) (MilestoneCounts, error) {
	var counts MilestoneCounts
	query := `SELECT COUNT(*) AS total,
	                 COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0) AS completed
	          FROM milestones WHERE goal_id = $1`

	err := r.db.Get(&counts, query, goalID)
	return counts, err
}

func (r *milestoneRepository) CountsByUser(userID string) (MilestoneCounts, error) {
	var counts MilestoneCounts
	query := `SELECT COUNT(*) AS total,
	                 COALESCE(SUM(CASE WHEN m.is_completed THEN 1 ELSE 0 END), 0) AS completed
	          FROM milestones m
	          JOIN goals g ON g.id = m.goal_id
	          WHERE g.user_id = $1`

	err := r.db.Get(&counts, query, userID)
	return counts, err
}
