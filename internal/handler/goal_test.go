package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/northstarhq/northstar/internal/model"
	"github.com/northstarhq/northstar/internal/service"
)

// goalMux registers the goal routes so path parameters resolve like they do
// in production.
func goalMux(goalRepo *stubGoalRepo, milestoneRepo *stubMilestoneRepo) *http.ServeMux {
	h := NewGoalHandler(service.NewGoalService(goalRepo, milestoneRepo))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/goals", h.Create)
	mux.HandleFunc("GET /api/goals", h.List)
	mux.HandleFunc("GET /api/goals/{id}", h.Get)
	mux.HandleFunc("PATCH /api/goals/{id}/status", h.UpdateStatus)
	mux.HandleFunc("DELETE /api/goals/{id}", h.Delete)
	return mux
}

func TestCreateGoal(t *testing.T) {
	goalRepo := &stubGoalRepo{}
	mux := goalMux(goalRepo, &stubMilestoneRepo{})

	rec := httptest.NewRecorder()
	body := `{"title":"Run a marathon","category":"health","target_date":"2026-12-01"}`
	mux.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/goals", body, testUser()))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var goal model.Goal
	if err := json.NewDecoder(rec.Body).Decode(&goal); err != nil {
		t.Fatal(err)
	}
	if goal.Title != "Run a marathon" || goal.Category != "health" {
		t.Fatalf("goal = %+v", goal)
	}
	if goal.Status != model.GoalStatusActive {
		t.Fatalf("status = %q, want active", goal.Status)
	}
	if goal.TargetDate == nil {
		t.Fatal("target date dropped")
	}
}

func TestCreateGoalValidation(t *testing.T) {
	mux := goalMux(&stubGoalRepo{}, &stubMilestoneRepo{})

	tests := []struct {
		name string
		body string
	}{
		{"blank title", `{"title":"   "}`},
		{"unknown category", `{"title":"t","category":"sports"}`},
		{"bad target date", `{"title":"t","target_date":"soon"}`},
		{"malformed json", `{"title":`},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/goals", tt.body, testUser()))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, rec.Code)
		}
	}
}

func TestGetGoalNotOwned(t *testing.T) {
	goalRepo := &stubGoalRepo{goal: &model.Goal{ID: "goal-1", UserID: "someone-else"}}
	mux := goalMux(goalRepo, &stubMilestoneRepo{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/goals/goal-1", "", testUser()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetGoalWithMilestones(t *testing.T) {
	goalRepo := &stubGoalRepo{goal: &model.Goal{ID: "goal-1", UserID: "user-1", Title: "Run a marathon"}}
	milestoneRepo := &stubMilestoneRepo{inserted: []*model.Milestone{
		{ID: "m-1", GoalID: "goal-1", Month: 1},
		{ID: "m-2", GoalID: "goal-1", Month: 2},
	}}
	mux := goalMux(goalRepo, milestoneRepo)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/goals/goal-1", "", testUser()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Goal       *model.Goal        `json:"goal"`
		Milestones []*model.Milestone `json:"milestones"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Goal == nil || resp.Goal.ID != "goal-1" {
		t.Fatalf("goal = %+v", resp.Goal)
	}
	if len(resp.Milestones) != 2 {
		t.Fatalf("got %d milestones, want 2", len(resp.Milestones))
	}
}

func TestListGoalsInvalidStatusFilter(t *testing.T) {
	mux := goalMux(&stubGoalRepo{}, &stubMilestoneRepo{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/goals?status=paused", "", testUser()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateGoalStatus(t *testing.T) {
	goalRepo := &stubGoalRepo{goal: &model.Goal{ID: "goal-1", UserID: "user-1", Status: model.GoalStatusActive}}
	mux := goalMux(goalRepo, &stubMilestoneRepo{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPatch, "/api/goals/goal-1/status", `{"status":"completed"}`, testUser()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if goalRepo.goal.Status != model.GoalStatusCompleted {
		t.Fatalf("goal status = %q", goalRepo.goal.Status)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPatch, "/api/goals/goal-1/status", `{"status":"finished"}`, testUser()))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status: got %d, want 400", rec.Code)
	}
}

func TestDeleteGoal(t *testing.T) {
	goalRepo := &stubGoalRepo{goal: &model.Goal{ID: "goal-1", UserID: "user-1"}}
	mux := goalMux(goalRepo, &stubMilestoneRepo{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/goals/goal-1", "", testUser()))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	// second delete hits nothing
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/goals/goal-1", "", testUser()))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeat delete: got %d, want 404", rec.Code)
	}
}
