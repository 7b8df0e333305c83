package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/northstarhq/northstar/internal/llm"
	"github.com/northstarhq/northstar/internal/model"
	"github.com/northstarhq/northstar/internal/repository"
)

var (
	ErrInvalidMood = errors.New("invalid mood")
)

const (
	feedbackMaxTokens   = 200
	feedbackTemperature = 0.8

	// defaultFeedback substitutes an empty model response.
	defaultFeedback = "Keep up the great work on your goals!"
)

const feedbackSystemPrompt = "You are an encouraging and supportive goal coach. Keep responses brief (2-3 sentences) and supportive. Be warm and motivational."

// moodContext maps each mood to the phrase embedded in the coaching prompt.
var moodContext = map[string]string{
	model.MoodGreat:      "The user is feeling great and motivated.",
	model.MoodGood:       "The user is feeling good about their progress.",
	model.MoodOkay:       "The user is feeling okay, might need some encouragement.",
	model.MoodStruggling: "The user is struggling and needs support and motivation.",
}

type CheckinService struct {
	checkinRepo repository.CheckinRepository
	goalRepo    repository.GoalRepository
	llm         llm.Client
}

func NewCheckinService(
	checkinRepo repository.CheckinRepository,
	goalRepo repository.GoalRepository,
	llmClient llm.Client,
) *CheckinService {
	return &CheckinService{
		checkinRepo: checkinRepo,
		goalRepo:    goalRepo,
		llm:         llmClient,
	}
}

// WeekNumber counts weeks elapsed since the start of now's year, as
// ceil(elapsed / one week). The first days of January land in week 1.
func WeekNumber(now time.Time) int {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	const weekMillis = 7 * 24 * 60 * 60 * 1000

	week := int(math.Ceil(float64(now.Sub(start).Milliseconds()) / weekMillis))
	if week < 1 {
		week = 1
	}
	return week
}

// Create persists a weekly check-in against one of the user's goals. The
// feedback field starts null; it is filled in later, best-effort, by
// GenerateFeedback.
func (s *CheckinService) Create(userID, goalID string, progressNote *string, mood string) (*model.Checkin, error) {
	if !model.ValidMood(mood) {
		return nil, ErrInvalidMood
	}

	// Ownership check on the referenced goal
	_, err := s.goalRepo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	checkin := &model.Checkin{
		ID:           uuid.New().String(),
		UserID:       userID,
		GoalID:       goalID,
		WeekNumber:   WeekNumber(time.Now()),
		ProgressNote: progressNote,
		Mood:         mood,
		CreatedAt:    time.Now(),
	}

	err = s.checkinRepo.Create(checkin)
	if err != nil {
		return nil, fmt.Errorf("failed to create check-in: %w", err)
	}

	return checkin, nil
}

func (s *CheckinService) Checkins(userID, goalID string) ([]*model.Checkin, error) {
	return s.checkinRepo.Checkins(userID, goalID)
}

// LatestCheckin returns the user's most recent check-in, or nil if they have
// none yet.
func (s *CheckinService) LatestCheckin(userID string) (*model.Checkin, error) {
	checkin, err := s.checkinRepo.Latest(userID)
	if errors.Is(err, repository.ErrCheckinNotFound) {
		return nil, nil
	}
	return checkin, err
}

// FeedbackInput carries the check-in context the coaching message is
// derived from.
type FeedbackInput struct {
	CheckinID    string
	GoalTitle    string
	ProgressNote string
	Mood         string
	WeekNumber   int
}

// GenerateFeedback produces a short coaching message and writes it onto the
// check-in, filtered by owner. The check-in itself is never rolled back on
// failure; it just stays without feedback.
func (s *CheckinService) GenerateFeedback(ctx context.Context, userID string, in FeedbackInput) (string, error) {
	prompt := FeedbackPrompt(in)

	raw, err := s.llm.Complete(ctx, llm.CompletionRequest{
		System:      feedbackSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   feedbackMaxTokens,
		Temperature: feedbackTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	feedback := strings.TrimSpace(raw)
	if feedback == "" {
		feedback = defaultFeedback
	}

	err = s.checkinRepo.UpdateFeedback(userID, in.CheckinID, feedback)
	if err != nil {
		return "", fmt.Errorf("failed to save feedback: %w", err)
	}

	return feedback, nil
}

// FeedbackPrompt builds the coaching instruction for one check-in.
func FeedbackPrompt(in FeedbackInput) string {
	note := in.ProgressNote
	if note == "" {
		note = "No notes provided"
	}

	return fmt.Sprintf(`Provide brief, personalized feedback (2-3 sentences) based on this weekly check-in.

Goal: %s
Week: %d of 52
Mood: %s - %s
Progress Note: %s

Give motivational, actionable feedback. Be warm but concise. Focus on celebrating progress or offering support based on their mood.`,
		in.GoalTitle, in.WeekNumber, in.Mood, moodContext[in.Mood], note)
}
