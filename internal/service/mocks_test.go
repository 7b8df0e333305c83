package service

import (
	"context"
	"time"

	"github.com/northstarhq/northstar/internal/llm"
	"github.com/northstarhq/northstar/internal/model"
	"github.com/northstarhq/northstar/internal/repository"
)

type mockGoalRepo struct {
	CreateFn        func(goal *model.Goal) error
	ByIDFn          func(userID, goalID string) (*model.Goal, error)
	GoalsFn         func(userID, status string) ([]*model.Goal, error)
	CountByStatusFn func(userID, status string) (int, error)
	UpdateStatusFn  func(userID, goalID, status string) error
	DeleteFn        func(userID, goalID string) error
}

func (m *mockGoalRepo) Create(goal *model.Goal) error { return m.CreateFn(goal) }
func (m *mockGoalRepo) ByID(userID, goalID string) (*model.Goal, error) {
	return m.ByIDFn(userID, goalID)
}
func (m *mockGoalRepo) Goals(userID, status string) ([]*model.Goal, error) {
	return m.GoalsFn(userID, status)
}
func (m *mockGoalRepo) CountByStatus(userID, status string) (int, error) {
	return m.CountByStatusFn(userID, status)
}
func (m *mockGoalRepo) UpdateStatus(userID, goalID, status string) error {
	return m.UpdateStatusFn(userID, goalID, status)
}
func (m *mockGoalRepo) Delete(userID, goalID string) error { return m.DeleteFn(userID, goalID) }

type mockMilestoneRepo struct {
	CreateBatchFn   func(milestones []*model.Milestone) error
	ByGoalFn        func(goalID string) ([]*model.Milestone, error)
	ByIDForUserFn   func(userID, milestoneID string) (*model.Milestone, error)
	SetCompletionFn func(milestoneID string, completed bool, completedAt *time.Time) error
	CountsByGoalFn  func(goalID string) (repository.MilestoneCounts, error)
	CountsByUserFn  func(userID string) (repository.MilestoneCounts, error)
}

func (m *mockMilestoneRepo) CreateBatch(milestones []*model.Milestone) error {
	return m.CreateBatchFn(milestones)
}
func (m *mockMilestoneRepo) ByGoal(goalID string) ([]*model.Milestone, error) {
	return m.ByGoalFn(goalID)
}
func (m *mockMilestoneRepo) ByIDForUser(userID, milestoneID string) (*model.Milestone, error) {
	return m.ByIDForUserFn(userID, milestoneID)
}
func (m *mockMilestoneRepo) SetCompletion(milestoneID string, completed bool, completedAt *time.Time) error {
	return m.SetCompletionFn(milestoneID, completed, completedAt)
}
func (m *mockMilestoneRepo) CountsByGoal(goalID string) (repository.MilestoneCounts, error) {
	return m.CountsByGoalFn(goalID)
}
func (m *mockMilestoneRepo) CountsByUser(userID string) (repository.MilestoneCounts, error) {
	return m.CountsByUserFn(userID)
}

type mockCheckinRepo struct {
	CreateFn         func(checkin *model.Checkin) error
	CheckinsFn       func(userID, goalID string) ([]*model.Checkin, error)
	LatestFn         func(userID string) (*model.Checkin, error)
	UpdateFeedbackFn func(userID, checkinID, feedback string) error
}

func (m *mockCheckinRepo) Create(checkin *model.Checkin) error { return m.CreateFn(checkin) }
func (m *mockCheckinRepo) Checkins(userID, goalID string) ([]*model.Checkin, error) {
	return m.CheckinsFn(userID, goalID)
}
func (m *mockCheckinRepo) Latest(userID string) (*model.Checkin, error) { return m.LatestFn(userID) }
func (m *mockCheckinRepo) UpdateFeedback(userID, checkinID, feedback string) error {
	return m.UpdateFeedbackFn(userID, checkinID, feedback)
}

type mockLLM struct {
	CompleteFn func(ctx context.Context, req llm.CompletionRequest) (string, error)
}

func (m *mockLLM) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	return m.CompleteFn(ctx, req)
}

func ownedGoal(userID, goalID string) *mockGoalRepo {
	return &mockGoalRepo{
		ByIDFn: func(uid, gid string) (*model.Goal, error) {
			if uid == userID && gid == goalID {
				return &model.Goal{ID: goalID, UserID: userID, Title: "Run a marathon", Status: model.GoalStatusActive}, nil
			}
			return nil, repository.ErrGoalNotFound
		},
	}
}
