package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/northstarhq/northstar/internal/ctxkeys"
	"github.com/northstarhq/northstar/internal/repository"
	"github.com/northstarhq/northstar/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

type createGoalRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Category    string  `json:"category"`
	TargetDate  string  `json:"target_date"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createGoalRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var targetDate *time.Time
	if req.TargetDate != "" {
		parsed, err := time.Parse("2006-01-02", req.TargetDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid target date format")
			return
		}
		targetDate = &parsed
	}

	goal, err := h.goalService.Create(user.ID, req.Title, req.Description, req.Category, targetDate)
	if errors.Is(err, service.ErrTitleRequired) || errors.Is(err, service.ErrInvalidCategory) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to create goal", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to create goal")
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	status := r.URL.Query().Get("status")

	goals, err := h.goalService.Goals(user.ID, status)
	if errors.Is(err, service.ErrInvalidStatus) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to list goals", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to load goals")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"goals": goals})
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID := r.PathValue("id")

	goal, milestones, err := h.goalService.GoalWithMilestones(user.ID, goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		writeError(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		slog.Error("failed to get goal", "error", err, "user_id", user.ID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "Failed to load goal")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"goal":       goal,
		"milestones": milestones,
	})
}

type updateGoalStatusRequest struct {
	Status string `json:"status"`
}

func (h *GoalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID := r.PathValue("id")

	var req updateGoalStatusRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.goalService.UpdateStatus(user.ID, goalID, req.Status)
	if errors.Is(err, service.ErrInvalidStatus) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errors.Is(err, repository.ErrGoalNotFound) {
		writeError(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		slog.Error("failed to update goal status", "error", err, "user_id", user.ID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "Failed to update goal")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID := r.PathValue("id")

	err := h.goalService.Delete(user.ID, goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		writeError(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete goal", "error", err, "user_id", user.ID, "goal_id", goalID)
		writeError(w, http.StatusInternalServerError, "Failed to delete goal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
