package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/northstarhq/northstar/internal/ctxkeys"
	"github.com/northstarhq/northstar/internal/repository"
	"github.com/northstarhq/northstar/internal/service"
)

type MilestoneHandler struct {
	milestoneService *service.MilestoneService
}

func NewMilestoneHandler(milestoneService *service.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{
		milestoneService: milestoneService,
	}
}

func (h *MilestoneHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	milestoneID := r.PathValue("id")

	milestone, err := h.milestoneService.ToggleCompletion(user.ID, milestoneID)
	if errors.Is(err, repository.ErrMilestoneNotFound) {
		writeError(w, http.StatusNotFound, "Milestone not found")
		return
	}
	if err != nil {
		slog.Error("failed to toggle milestone", "error", err, "user_id", user.ID, "milestone_id", milestoneID)
		writeError(w, http.StatusInternalServerError, "Failed to update milestone")
		return
	}

	writeJSON(w, http.StatusOK, milestone)
}
