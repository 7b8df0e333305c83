package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/northstarhq/northstar/internal/llm"
	"github.com/northstarhq/northstar/internal/model"
	"github.com/northstarhq/northstar/internal/repository"
)

var (
	// ErrGeneration marks an LLM call that failed outright. Unusable LLM
	// output is not a generation error; it is recovered via the fallback list.
	ErrGeneration = errors.New("milestone generation failed")
)

const (
	milestoneMaxTokens   = 1500
	milestoneTemperature = 0.7
)

type MilestoneService struct {
	goalRepo      repository.GoalRepository
	milestoneRepo repository.MilestoneRepository
	llm           llm.Client
}

func NewMilestoneService(
	goalRepo repository.GoalRepository,
	milestoneRepo repository.MilestoneRepository,
	llmClient llm.Client,
) *MilestoneService {
	return &MilestoneService{
		goalRepo:      goalRepo,
		milestoneRepo: milestoneRepo,
		llm:           llmClient,
	}
}

// GenerateInput carries the goal attributes the roadmap is derived from. The
// goal itself must already exist and belong to the requesting user.
type GenerateInput struct {
	GoalID      string
	Title       string
	Description string
	Category    string
	TargetDate  *time.Time
}

// Generate produces and persists the milestone roadmap for a goal. The goal
// record is untouched either way: a failure here leaves a goal without
// milestones, and the caller may retry.
func (s *MilestoneService) Generate(ctx context.Context, userID string, in GenerateInput) ([]*model.Milestone, error) {
	// Ownership check before any generation or insert
	_, err := s.goalRepo.ByID(userID, in.GoalID)
	if err != nil {
		return nil, err
	}

	plan := PlanTimeline(in.TargetDate, time.Now())
	prompt := MilestonePrompt(plan, in.Title, in.Description, in.Category)

	raw, err := s.llm.Complete(ctx, llm.CompletionRequest{
		System:      milestoneSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   milestoneMaxTokens,
		Temperature: milestoneTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	result := ParseOrFallback(raw, plan, in.Title)
	if result.Fallback {
		slog.Warn("unusable milestone response, using fallback list",
			"goal_id", in.GoalID, "steps", plan.Steps, "raw_len", len(raw))
	}

	now := time.Now()
	milestones := make([]*model.Milestone, len(result.Entries))
	for i, draft := range result.Entries {
		milestones[i] = &model.Milestone{
			ID:          uuid.New().String(),
			GoalID:      in.GoalID,
			Title:       draft.Title,
			Month:       draft.Month,
			IsCompleted: false,
			CreatedAt:   now,
		}
	}

	// Batch insert without a compensating rollback: a partial failure can
	// leave some rows behind, surfaced to the caller as an error.
	err = s.milestoneRepo.CreateBatch(milestones)
	if err != nil {
		return nil, fmt.Errorf("failed to save milestones: %w", err)
	}

	return milestones, nil
}

// ToggleCompletion flips the completion flag. The completion timestamp is
// set exactly when the flag turns true and cleared when it turns false.
func (s *MilestoneService) ToggleCompletion(userID, milestoneID string) (*model.Milestone, error) {
	milestone, err := s.milestoneRepo.ByIDForUser(userID, milestoneID)
	if err != nil {
		return nil, err
	}

	milestone.IsCompleted = !milestone.IsCompleted
	if milestone.IsCompleted {
		now := time.Now()
		milestone.CompletedAt = &now
	} else {
		milestone.CompletedAt = nil
	}

	err = s.milestoneRepo.SetCompletion(milestone.ID, milestone.IsCompleted, milestone.CompletedAt)
	if err != nil {
		return nil, err
	}

	return milestone, nil
}
