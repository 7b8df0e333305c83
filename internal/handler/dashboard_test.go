package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/northstarhq/northstar/internal/model"
	"github.com/northstarhq/northstar/internal/service"
)

func TestDashboardStats(t *testing.T) {
	milestoneRepo := &stubMilestoneRepo{inserted: []*model.Milestone{
		{ID: "m-1"}, {ID: "m-2"}, {ID: "m-3"},
	}}
	h := NewDashboardHandler(
		service.NewGoalService(&stubGoalRepo{}, milestoneRepo),
		service.NewCheckinService(&stubCheckinRepo{}, &stubGoalRepo{}, &stubLLM{}),
	)

	rec := httptest.NewRecorder()
	h.Stats(rec, authedRequest(http.MethodGet, "/api/dashboard", "", testUser()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ActiveGoals     int            `json:"active_goals"`
		TotalMilestones int            `json:"total_milestones"`
		OverallProgress int            `json:"overall_progress"`
		LastCheckin     *model.Checkin `json:"last_checkin"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.TotalMilestones != 3 || resp.OverallProgress != 0 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.LastCheckin != nil {
		t.Fatal("last check-in must be null before any check-ins exist")
	}
}
