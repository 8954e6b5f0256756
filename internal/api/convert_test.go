package api

import (
	"testing"
	"time"

	"scribe/internal/tasks"
)

func TestFromTaskDerivesLaneAndFormatsTimes(t *testing.T) {
	deadline := time.Date(2026, 8, 28, 23, 59, 59, 0, time.UTC)
	effort := 30
	task := &tasks.Task{
		ID:                "abc",
		RawInput:          "raw",
		EnrichedText:      "Enriched.",
		Status:            tasks.StatusCompleted,
		Project:           "work",
		Persons:           []string{"Sarah Johnson"},
		DeadlineText:      "friday",
		DeadlineParsed:    &deadline,
		EffortEstimate:    &effort,
		Suggestions:       map[string]tasks.Suggestion{"priority": {Value: "high", Confidence: 0.5}},
		RequiresAttention: true,
		RetryCount:        1,
		CreatedAt:         time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC),
	}

	view := FromTask(task)

	if view.Lane != "needs_attention" {
		t.Errorf("lane = %q", view.Lane)
	}
	if view.DeadlineParsed != "2026-08-28T23:59:59Z" {
		t.Errorf("deadline parsed = %q", view.DeadlineParsed)
	}
	if view.CreatedAt != "2026-08-24T09:00:00Z" {
		t.Errorf("created at = %q", view.CreatedAt)
	}
	if view.UpdatedAt != "" {
		t.Errorf("zero updated at rendered: %q", view.UpdatedAt)
	}
	if suggestion := view.Suggestions["priority"]; suggestion.Value != "high" || suggestion.Confidence != 0.5 {
		t.Errorf("suggestion = %+v", suggestion)
	}
	if view.EffortEstimate == nil || *view.EffortEstimate != 30 {
		t.Errorf("effort = %v", view.EffortEstimate)
	}
}

func TestFromTasksPreservesOrder(t *testing.T) {
	items := []*tasks.Task{
		{ID: "b", Status: tasks.StatusPending},
		{ID: "a", Status: tasks.StatusFailed, ErrorMessage: "x"},
	}
	views := FromTasks(items)
	if len(views) != 2 || views[0].ID != "b" || views[1].ID != "a" {
		t.Fatalf("views = %+v", views)
	}
	if views[1].Lane != "error" {
		t.Errorf("lane = %q", views[1].Lane)
	}
	if FromTasks(nil) != nil {
		t.Error("nil input produced non-nil slice")
	}
}
