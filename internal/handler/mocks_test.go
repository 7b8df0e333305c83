package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/northstarhq/northstar/internal/ctxkeys"
	"github.com/northstarhq/northstar/internal/llm"
	"github.com/northstarhq/northstar/internal/model"
	"github.com/northstarhq/northstar/internal/repository"
)

type stubGoalRepo struct {
	goal *model.Goal
}

func (s *stubGoalRepo) Create(goal *model.Goal) error { return nil }
func (s *stubGoalRepo) ByID(userID, goalID string) (*model.Goal, error) {
	if s.goal != nil && s.goal.UserID == userID && s.goal.ID == goalID {
		return s.goal, nil
	}
	return nil, repository.ErrGoalNotFound
}
func (s *stubGoalRepo) Goals(userID, status string) ([]*model.Goal, error) {
	if s.goal != nil && s.goal.UserID == userID {
		return []*model.Goal{s.goal}, nil
	}
	return nil, nil
}
func (s *stubGoalRepo) CountByStatus(userID, status string) (int, error) { return 0, nil }
func (s *stubGoalRepo) UpdateStatus(userID, goalID, status string) error {
	if s.goal != nil && s.goal.UserID == userID && s.goal.ID == goalID {
		s.goal.Status = status
		return nil
	}
	return repository.ErrGoalNotFound
}
func (s *stubGoalRepo) Delete(userID, goalID string) error {
	if s.goal != nil && s.goal.UserID == userID && s.goal.ID == goalID {
		s.goal = nil
		return nil
	}
	return repository.ErrGoalNotFound
}

type stubMilestoneRepo struct {
	inserted []*model.Milestone
}

func (s *stubMilestoneRepo) CreateBatch(milestones []*model.Milestone) error {
	s.inserted = append(s.inserted, milestones...)
	return nil
}
func (s *stubMilestoneRepo) ByGoal(goalID string) ([]*model.Milestone, error) {
	return s.inserted, nil
}
func (s *stubMilestoneRepo) ByIDForUser(userID, milestoneID string) (*model.Milestone, error) {
	for _, m := range s.inserted {
		if m.ID == milestoneID {
			return m, nil
		}
	}
	return nil, repository.ErrMilestoneNotFound
}
func (s *stubMilestoneRepo) SetCompletion(milestoneID string, completed bool, completedAt *time.Time) error {
	for _, m := range s.inserted {
		if m.ID == milestoneID {
			m.IsCompleted = completed
			m.CompletedAt = completedAt
			return nil
		}
	}
	return repository.ErrMilestoneNotFound
}
func (s *stubMilestoneRepo) CountsByGoal(goalID string) (repository.MilestoneCounts, error) {
	return repository.MilestoneCounts{Total: len(s.inserted)}, nil
}
func (s *stubMilestoneRepo) CountsByUser(userID string) (repository.MilestoneCounts, error) {
	return repository.MilestoneCounts{Total: len(s.inserted)}, nil
}

type stubCheckinRepo struct {
	feedback map[string]string
}

func (s *stubCheckinRepo) Create(checkin *model.Checkin) error { return nil }
func (s *stubCheckinRepo) Checkins(userID, goalID string) ([]*model.Checkin, error) {
	return nil, nil
}
func (s *stubCheckinRepo) Latest(userID string) (*model.Checkin, error) {
	return nil, repository.ErrCheckinNotFound
}
func (s *stubCheckinRepo) UpdateFeedback(userID, checkinID, feedback string) error {
	if s.feedback == nil {
		s.feedback = map[string]string{}
	}
	s.feedback[checkinID] = feedback
	return nil
}

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	return s.response, s.err
}

// authedRequest builds a JSON request carrying an authenticated user, the way
// the auth middleware would hand it to a handler.
func authedRequest(method, target, body string, user *model.User) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req = req.WithContext(ctxkeys.WithUser(req.Context(), user))
	}
	return req
}

func testUser() *model.User {
	return &model.User{ID: "user-1", Email: "alice@example.com"}
}
