package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// monthMillis approximates one month as 30.44 days. The value is a product
// constant; changing the rounding changes how many milestones existing goals
// get on regeneration.
const monthMillis = 30.44 * 24 * 60 * 60 * 1000

const (
	defaultTimelineMonths = 12
	maxTimelineMonths     = 24
	shortTermMonths       = 3
	stepsPerMonth         = 4
)

// MilestonePlan describes the milestone timeline for one goal.
type MilestonePlan struct {
	Months int  // timeline length in months
	Steps  int  // number of milestone entries to produce
	Weekly bool // short-term goals get four weekly steps per month
}

// PlanTimeline sizes the milestone timeline for a goal. Without a target
// date the timeline is one year of monthly steps. With a target date the
// month count is ceil(distance / 30.44 days) clamped to [1, 24]; timelines
// of three months or less switch to weekly granularity.
func PlanTimeline(targetDate *time.Time, now time.Time) MilestonePlan {
	if targetDate == nil {
		return MilestonePlan{Months: defaultTimelineMonths, Steps: defaultTimelineMonths}
	}

	months := int(math.Ceil(float64(targetDate.Sub(now).Milliseconds()) / monthMillis))
	if months < 1 {
		months = 1
	}
	if months > maxTimelineMonths {
		months = maxTimelineMonths
	}

	if months <= shortTermMonths {
		return MilestonePlan{Months: months, Steps: months * stepsPerMonth, Weekly: true}
	}
	return MilestonePlan{Months: months, Steps: months}
}

// MonthFor returns the 1-based month tag for a 1-based step index. Weekly
// plans map roughly four steps onto each month; monthly plans map a step to
// its own index.
func (p MilestonePlan) MonthFor(step int) int {
	if !p.Weekly {
		return step
	}
	return p.clampMonth(int(math.Ceil(float64(step) / stepsPerMonth)))
}

func (p MilestonePlan) clampMonth(month int) int {
	if month < 1 {
		return 1
	}
	if month > p.Months {
		return p.Months
	}
	return month
}

// MilestoneDraft is one milestone as requested from (and returned by) the
// model, before persistence.
type MilestoneDraft struct {
	Month int    `json:"month"`
	Title string `json:"title"`
}

// PlanResult is the outcome of interpreting a model response. Fallback marks
// a synthetic list produced because the response was unusable; the caller
// never sees a parse error.
type PlanResult struct {
	Entries  []MilestoneDraft
	Fallback bool
}

const milestoneSystemPrompt = "You are a goal-planning assistant that only responds with valid JSON arrays. Never include any text outside of the JSON array."

// MilestonePrompt builds the generation instruction for a goal. Short-term
// prompts ask for weekly steps sharing month tags and forbid "Week N:" title
// prefixes, which the model otherwise likes to add.
func MilestonePrompt(p MilestonePlan, title, description, category string) string {
	var sb strings.Builder

	if p.Weekly {
		fmt.Fprintf(&sb, "Given a user's goal with a deadline %d month(s) away, generate exactly %d weekly milestones that will help them achieve their goal progressively.\n\n", p.Months, p.Steps)
	} else {
		fmt.Fprintf(&sb, "Given a user's goal, generate exactly %d monthly milestones (one for each month of the timeline) that will help them achieve their goal progressively.\n\n", p.Steps)
	}

	fmt.Fprintf(&sb, "Goal: %s\n", title)
	if description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", description)
	}
	if category != "" {
		fmt.Fprintf(&sb, "Category: %s\n", category)
	}

	fmt.Fprintf(&sb, "\nRespond with ONLY a valid JSON array of %d objects, each with \"month\" (1-%d) and \"title\" (a specific, actionable milestone). No other text.\n", p.Steps, p.Months)
	if p.Weekly {
		sb.WriteString("Roughly four consecutive entries share each month number. Do NOT prefix titles with \"Week N:\".\n")
	}
	sb.WriteString("\nExample format:\n[{\"month\":1,\"title\":\"Research and create a detailed plan\"},{\"month\":1,\"title\":\"Start with basic steps\"}]")

	return sb.String()
}

// ParseOrFallback interprets a raw model response as a milestone list. The
// model tends to decorate its answer with prose, so the first bracketed
// array substring is extracted greedily (first '[' to last ']') and parsed.
// Short lists are padded, long lists truncated, and short-term month tags
// clamped into range. Any failure yields a full synthetic fallback list; the
// function never fails.
func ParseOrFallback(raw string, p MilestonePlan, goalTitle string) PlanResult {
	drafts, ok := extractDrafts(raw)
	if !ok {
		return PlanResult{Entries: fallbackDrafts(p, goalTitle), Fallback: true}
	}

	if len(drafts) > p.Steps {
		drafts = drafts[:p.Steps]
	}
	for len(drafts) < p.Steps {
		drafts = append(drafts, MilestoneDraft{
			Month: p.MonthFor(len(drafts) + 1),
			Title: fmt.Sprintf("Continue working on %s", goalTitle),
		})
	}

	if p.Weekly {
		for i := range drafts {
			drafts[i].Month = p.clampMonth(drafts[i].Month)
		}
	}

	return PlanResult{Entries: drafts}
}

// extractDrafts pulls the first JSON array out of the response text. The
// greedy bracket match is a best-effort heuristic: it breaks on nested
// arrays inside titles, which the fallback path absorbs.
func extractDrafts(raw string) ([]MilestoneDraft, bool) {
	text := strings.TrimSpace(raw)

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end <= start {
		return nil, false
	}

	var drafts []MilestoneDraft
	if err := json.Unmarshal([]byte(text[start:end+1]), &drafts); err != nil {
		return nil, false
	}
	if len(drafts) == 0 {
		return nil, false
	}

	return drafts, true
}

func fallbackDrafts(p MilestonePlan, goalTitle string) []MilestoneDraft {
	drafts := make([]MilestoneDraft, p.Steps)
	for i := 1; i <= p.Steps; i++ {
		title := fmt.Sprintf("Month %d: Progress milestone for %s", i, goalTitle)
		if p.Weekly {
			title = fmt.Sprintf("Progress step %d for %s", i, goalTitle)
		}
		drafts[i-1] = MilestoneDraft{Month: p.MonthFor(i), Title: title}
	}
	return drafts
}
