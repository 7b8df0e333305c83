package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/northstarhq/northstar/internal/model"
	"github.com/northstarhq/northstar/internal/repository"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidStatus   = errors.New("invalid goal status")
	ErrInvalidCategory = errors.New("invalid goal category")
)

type GoalService struct {
	repo          repository.GoalRepository
	milestoneRepo repository.MilestoneRepository
}

func NewGoalService(repo repository.GoalRepository, milestoneRepo repository.MilestoneRepository) *GoalService {
	return &GoalService{
		repo:          repo,
		milestoneRepo: milestoneRepo,
	}
}

// GoalProgress is a goal together with its derived completion metrics.
type GoalProgress struct {
	*model.Goal
	CompletedMilestones int `json:"completed_milestones"`
	TotalMilestones     int `json:"total_milestones"`
	Progress            int `json:"progress"`
}

// DashboardStats aggregates progress across all of a user's goals.
type DashboardStats struct {
	ActiveGoals         int `json:"active_goals"`
	CompletedMilestones int `json:"completed_milestones"`
	TotalMilestones     int `json:"total_milestones"`
	OverallProgress     int `json:"overall_progress"`
}

func (s *GoalService) Create(userID, title string, description *string, category string, targetDate *time.Time) (*model.Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if category == "" {
		category = model.CategoryPersonal
	}
	if !model.ValidCategory(category) {
		return nil, ErrInvalidCategory
	}

	now := time.Now()
	goal := &model.Goal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Category:    category,
		TargetDate:  targetDate,
		Status:      model.GoalStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) ByID(userID, goalID string) (*model.Goal, error) {
	return s.repo.ByID(userID, goalID)
}

// GoalWithMilestones verifies ownership and loads the goal's roadmap.
func (s *GoalService) GoalWithMilestones(userID, goalID string) (*model.Goal, []*model.Milestone, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, nil, err
	}

	milestones, err := s.milestoneRepo.ByGoal(goalID)
	if err != nil {
		return nil, nil, err
	}

	return goal, milestones, nil
}

// Goals lists the user's goals with per-goal completion metrics, optionally
// filtered by status.
func (s *GoalService) Goals(userID, status string) ([]*GoalProgress, error) {
	if status != "" && !model.ValidGoalStatus(status) {
		return nil, ErrInvalidStatus
	}

	goals, err := s.repo.Goals(userID, status)
	if err != nil {
		return nil, err
	}

	result := make([]*GoalProgress, len(goals))
	for i, goal := range goals {
		counts, err := s.milestoneRepo.CountsByGoal(goal.ID)
		if err != nil {
			return nil, err
		}
		result[i] = &GoalProgress{
			Goal:                goal,
			CompletedMilestones: counts.Completed,
			TotalMilestones:     counts.Total,
			Progress:            completionPercent(counts.Completed, counts.Total),
		}
	}

	return result, nil
}

// UpdateStatus moves a goal between active, completed, and abandoned. Any
// transition among the three is user-driven and allowed.
func (s *GoalService) UpdateStatus(userID, goalID, status string) error {
	if !model.ValidGoalStatus(status) {
		return ErrInvalidStatus
	}

	return s.repo.UpdateStatus(userID, goalID, status)
}

func (s *GoalService) Delete(userID, goalID string) error {
	return s.repo.Delete(userID, goalID)
}

// Stats computes the dashboard aggregates for a user.
func (s *GoalService) Stats(userID string) (*DashboardStats, error) {
	active, err := s.repo.CountByStatus(userID, model.GoalStatusActive)
	if err != nil {
		return nil, err
	}

	counts, err := s.milestoneRepo.CountsByUser(userID)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		ActiveGoals:         active,
		CompletedMilestones: counts.Completed,
		TotalMilestones:     counts.Total,
		OverallProgress:     completionPercent(counts.Completed, counts.Total),
	}, nil
}

// completionPercent is round(100 * completed / total), 0 for an empty set.
func completionPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
