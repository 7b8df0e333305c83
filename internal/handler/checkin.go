package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/northstarhq/northstar/internal/ctxkeys"
	"github.com/northstarhq/northstar/internal/repository"
	"github.com/northstarhq/northstar/internal/service"
)

type CheckinHandler struct {
	checkinService *service.CheckinService
}

func NewCheckinHandler(checkinService *service.CheckinService) *CheckinHandler {
	return &CheckinHandler{
		checkinService: checkinService,
	}
}

type createCheckinRequest struct {
	GoalID       string  `json:"goal_id"`
	ProgressNote *string `json:"progress_note"`
	Mood         string  `json:"mood"`
}

func (h *CheckinHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createCheckinRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.GoalID == "" {
		writeError(w, http.StatusBadRequest, "Goal ID is required")
		return
	}

	checkin, err := h.checkinService.Create(user.ID, req.GoalID, req.ProgressNote, req.Mood)
	if errors.Is(err, service.ErrInvalidMood) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errors.Is(err, repository.ErrGoalNotFound) {
		writeError(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		slog.Error("failed to create check-in", "error", err, "user_id", user.ID, "goal_id", req.GoalID)
		writeError(w, http.StatusInternalServerError, "Failed to create check-in")
		return
	}

	writeJSON(w, http.StatusCreated, checkin)
}

func (h *CheckinHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID := r.URL.Query().Get("goal_id")

	checkins, err := h.checkinService.Checkins(user.ID, goalID)
	if err != nil {
		slog.Error("failed to list check-ins", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to load check-ins")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"checkins": checkins})
}
