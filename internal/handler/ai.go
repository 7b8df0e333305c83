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

// AIHandler exposes the two generation proxy endpoints. Both are thin: they
// validate input, delegate to the services, and map error classes onto
// status codes.
type AIHandler struct {
	milestoneService *service.MilestoneService
	checkinService   *service.CheckinService
}

func NewAIHandler(milestoneService *service.MilestoneService, checkinService *service.CheckinService) *AIHandler {
	return &AIHandler{
		milestoneService: milestoneService,
		checkinService:   checkinService,
	}
}

type generateMilestonesRequest struct {
	GoalID      string `json:"goalId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	TargetDate  string `json:"targetDate"`
}

func (h *AIHandler) GenerateMilestones(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req generateMilestonesRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.GoalID == "" || req.Title == "" {
		writeError(w, http.StatusBadRequest, "Goal ID and title are required")
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

	milestones, err := h.milestoneService.Generate(r.Context(), user.ID, service.GenerateInput{
		GoalID:      req.GoalID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		TargetDate:  targetDate,
	})
	if errors.Is(err, repository.ErrGoalNotFound) {
		writeError(w, http.StatusForbidden, "Goal not found")
		return
	}
	if errors.Is(err, service.ErrGeneration) {
		slog.Error("milestone generation failed", "error", err, "user_id", user.ID, "goal_id", req.GoalID)
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to generate milestones", err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to save milestones", "error", err, "user_id", user.ID, "goal_id", req.GoalID)
		writeError(w, http.StatusInternalServerError, "Failed to save milestones")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"milestones": milestones,
	})
}

type checkinFeedbackRequest struct {
	CheckinID    string `json:"checkinId"`
	GoalTitle    string `json:"goalTitle"`
	ProgressNote string `json:"progressNote"`
	Mood         string `json:"mood"`
	WeekNumber   int    `json:"weekNumber"`
}

func (h *AIHandler) CheckinFeedback(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req checkinFeedbackRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.CheckinID == "" || req.GoalTitle == "" {
		writeError(w, http.StatusBadRequest, "Check-in ID and goal title are required")
		return
	}

	feedback, err := h.checkinService.GenerateFeedback(r.Context(), user.ID, service.FeedbackInput{
		CheckinID:    req.CheckinID,
		GoalTitle:    req.GoalTitle,
		ProgressNote: req.ProgressNote,
		Mood:         req.Mood,
		WeekNumber:   req.WeekNumber,
	})
	if errors.Is(err, service.ErrGeneration) {
		slog.Error("feedback generation failed", "error", err, "user_id", user.ID, "checkin_id", req.CheckinID)
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to generate feedback", err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to save feedback", "error", err, "user_id", user.ID, "checkin_id", req.CheckinID)
		writeError(w, http.StatusInternalServerError, "Failed to save feedback")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"feedback": feedback,
	})
}
