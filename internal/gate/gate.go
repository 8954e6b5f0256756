// Package gate applies confidence scoring rules to extraction results. Fields
// at or above the threshold are populated on the task; fields below it are
// preserved as suggestions for the user to confirm.
package gate

import (
	"time"

	"scribe/internal/deadline"
	"scribe/internal/extraction"
	"scribe/internal/tasks"
)

// DefaultThreshold is the minimum confidence for auto-population.
const DefaultThreshold = 0.7

// Apply writes an extraction result onto a task according to the confidence
// threshold. The attention flag depends on the project field alone: a task
// needs review when no project was extracted confidently, because without one
// it cannot be filed. Other low-confidence fields only produce suggestions.
func Apply(task *tasks.Task, result *extraction.Result, threshold float64, ref time.Time) {
	if task == nil || result == nil {
		return
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	task.EnrichedText = result.EnrichedText
	suggestions := make(map[string]tasks.Suggestion)

	suggest := func(name string, value any, confidence float64) {
		suggestions[name] = tasks.Suggestion{Value: value, Confidence: confidence}
	}

	projectPopulated := false
	if project, confidence, ok := result.StringField(extraction.FieldProject); ok {
		if confidence >= threshold {
			task.Project = project
			projectPopulated = true
		} else {
			suggest(extraction.FieldProject, project, confidence)
		}
	}
	task.RequiresAttention = !projectPopulated

	if persons, confidence, ok := result.StringsField(extraction.FieldPersons); ok {
		if confidence >= threshold {
			task.Persons = persons
		} else {
			suggest(extraction.FieldPersons, persons, confidence)
		}
	}

	if text, confidence, ok := result.StringField(extraction.FieldDeadline); ok {
		if confidence >= threshold {
			task.DeadlineText = text
			if when, parsed := deadline.Parse(text, ref); parsed {
				task.DeadlineParsed = &when
			}
		} else {
			suggest(extraction.FieldDeadline, text, confidence)
		}
	}

	if taskType, confidence, ok := result.StringField(extraction.FieldTaskType); ok {
		if confidence >= threshold {
			task.TaskType = taskType
		} else {
			suggest(extraction.FieldTaskType, taskType, confidence)
		}
	}

	if priority, confidence, ok := result.StringField(extraction.FieldPriority); ok {
		if confidence >= threshold {
			task.Priority = priority
		} else {
			suggest(extraction.FieldPriority, priority, confidence)
		}
	}

	if effort, confidence, ok := result.IntField(extraction.FieldEffort); ok {
		if confidence >= threshold {
			task.EffortEstimate = &effort
		} else {
			suggest(extraction.FieldEffort, effort, confidence)
		}
	}

	if deps, confidence, ok := result.StringsField(extraction.FieldDependencies); ok {
		if confidence >= threshold {
			task.Dependencies = deps
		} else {
			suggest(extraction.FieldDependencies, deps, confidence)
		}
	}

	if tags, confidence, ok := result.StringsField(extraction.FieldTags); ok {
		if confidence >= threshold {
			task.Tags = tags
		} else {
			suggest(extraction.FieldTags, tags, confidence)
		}
	}

	if len(suggestions) > 0 {
		task.Suggestions = suggestions
	} else {
		task.Suggestions = nil
	}
}
