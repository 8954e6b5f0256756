package api

import (
	"time"

	"scribe/internal/tasks"
)

// FromTask converts a stored task to its transport view.
func FromTask(task *tasks.Task) TaskView {
	if task == nil {
		return TaskView{}
	}
	view := TaskView{
		ID:                task.ID,
		RawInput:          task.RawInput,
		EnrichedText:      task.EnrichedText,
		Status:            string(task.Status),
		Lane:              string(task.Lane()),
		Project:           task.Project,
		Persons:           append([]string(nil), task.Persons...),
		TaskType:          task.TaskType,
		Priority:          task.Priority,
		DeadlineText:      task.DeadlineText,
		EffortEstimate:    task.EffortEstimate,
		Dependencies:      append([]string(nil), task.Dependencies...),
		Tags:              append([]string(nil), task.Tags...),
		RequiresAttention: task.RequiresAttention,
		ErrorMessage:      task.ErrorMessage,
		RetryCount:        task.RetryCount,
		CreatedAt:         formatTime(task.CreatedAt),
		UpdatedAt:         formatTime(task.UpdatedAt),
	}
	if task.DeadlineParsed != nil {
		view.DeadlineParsed = formatTime(*task.DeadlineParsed)
	}
	if len(task.Suggestions) > 0 {
		view.Suggestions = make(map[string]SuggestionView, len(task.Suggestions))
		for name, suggestion := range task.Suggestions {
			view.Suggestions[name] = SuggestionView{
				Value:      suggestion.Value,
				Confidence: suggestion.Confidence,
			}
		}
	}
	return view
}

// FromTasks converts a slice of stored tasks, preserving order.
func FromTasks(items []*tasks.Task) []TaskView {
	if len(items) == 0 {
		return nil
	}
	views := make([]TaskView, 0, len(items))
	for _, task := range items {
		views = append(views, FromTask(task))
	}
	return views
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
