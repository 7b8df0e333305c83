package handler

import (
	"log/slog"
	"net/http"

	"github.com/northstarhq/northstar/internal/ctxkeys"
	"github.com/northstarhq/northstar/internal/model"
	"github.com/northstarhq/northstar/internal/service"
)

type DashboardHandler struct {
	goalService    *service.GoalService
	checkinService *service.CheckinService
}

func NewDashboardHandler(goalService *service.GoalService, checkinService *service.CheckinService) *DashboardHandler {
	return &DashboardHandler{
		goalService:    goalService,
		checkinService: checkinService,
	}
}

type dashboardResponse struct {
	*service.DashboardStats
	LastCheckin *model.Checkin `json:"last_checkin"`
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	stats, err := h.goalService.Stats(user.ID)
	if err != nil {
		slog.Error("failed to load dashboard stats", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	latest, err := h.checkinService.LatestCheckin(user.ID)
	if err != nil {
		slog.Error("failed to load latest check-in", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		DashboardStats: stats,
		LastCheckin:    latest,
	})
}
