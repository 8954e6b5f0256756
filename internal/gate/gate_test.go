package gate

import (
	"math/rand"
	"testing"
	"time"

	"scribe/internal/extraction"
	"scribe/internal/tasks"
)

var ref = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC) // a Monday

func resultWith(fields map[string]extraction.FieldScore) *extraction.Result {
	return &extraction.Result{EnrichedText: "Enriched.", Fields: fields}
}

func TestConfidentFieldsPopulate(t *testing.T) {
	task := &tasks.Task{}
	effort := 45
	result := resultWith(map[string]extraction.FieldScore{
		extraction.FieldProject:      {Value: "Work", Confidence: 0.95},
		extraction.FieldPersons:      {Value: []string{"Sarah Johnson"}, Confidence: 0.9},
		extraction.FieldDeadline:     {Value: "tomorrow at 3pm", Confidence: 1.0},
		extraction.FieldTaskType:     {Value: "call", Confidence: 1.0},
		extraction.FieldPriority:     {Value: "urgent", Confidence: 0.8},
		extraction.FieldEffort:       {Value: effort, Confidence: 0.8},
		extraction.FieldDependencies: {Value: []string{"budget approval"}, Confidence: 0.9},
		extraction.FieldTags:         {Value: []string{"finance"}, Confidence: 1.0},
	})

	Apply(task, result, 0.7, ref)

	if task.EnrichedText != "Enriched." {
		t.Errorf("enriched text = %q", task.EnrichedText)
	}
	if task.Project != "Work" || task.RequiresAttention {
		t.Errorf("project = %q, attention = %v", task.Project, task.RequiresAttention)
	}
	if len(task.Persons) != 1 || task.Persons[0] != "Sarah Johnson" {
		t.Errorf("persons = %v", task.Persons)
	}
	if task.DeadlineText != "tomorrow at 3pm" {
		t.Errorf("deadline text = %q", task.DeadlineText)
	}
	if task.DeadlineParsed == nil {
		t.Error("deadline not parsed")
	} else if !task.DeadlineParsed.Equal(time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)) {
		t.Errorf("deadline parsed = %v", task.DeadlineParsed)
	}
	if task.TaskType != "call" || task.Priority != "urgent" {
		t.Errorf("type/priority = %q/%q", task.TaskType, task.Priority)
	}
	if task.EffortEstimate == nil || *task.EffortEstimate != 45 {
		t.Errorf("effort = %v", task.EffortEstimate)
	}
	if task.Suggestions != nil {
		t.Errorf("suggestions = %v, want none", task.Suggestions)
	}
}

func TestLowConfidenceBecomesSuggestion(t *testing.T) {
	task := &tasks.Task{}
	result := resultWith(map[string]extraction.FieldScore{
		extraction.FieldProject:  {Value: "Work", Confidence: 0.9},
		extraction.FieldPriority: {Value: "high", Confidence: 0.4},
	})

	Apply(task, result, 0.7, ref)

	if task.Priority != "" {
		t.Errorf("low-confidence priority populated: %q", task.Priority)
	}
	suggestion, ok := task.Suggestions[extraction.FieldPriority]
	if !ok || suggestion.Value != "high" || suggestion.Confidence != 0.4 {
		t.Errorf("suggestion = %+v, %v", suggestion, ok)
	}
	if task.RequiresAttention {
		t.Error("low-confidence non-project field flagged attention")
	}
}

func TestAttentionOnlyTracksProject(t *testing.T) {
	cases := []struct {
		name          string
		project       extraction.FieldScore
		wantAttention bool
	}{
		{"confident project", extraction.FieldScore{Value: "Work", Confidence: 0.9}, false},
		{"exactly threshold", extraction.FieldScore{Value: "Work", Confidence: 0.7}, false},
		{"low confidence project", extraction.FieldScore{Value: "Work", Confidence: 0.5}, true},
		{"no project", extraction.FieldScore{Confidence: 0}, true},
	}
	for _, tc := range cases {
		task := &tasks.Task{}
		Apply(task, resultWith(map[string]extraction.FieldScore{
			extraction.FieldProject: tc.project,
			// Everything else low confidence must not affect the flag.
			extraction.FieldPersons:  {Value: []string{"Ana"}, Confidence: 0.1},
			extraction.FieldPriority: {Value: "low", Confidence: 0.1},
		}), 0.7, ref)
		if task.RequiresAttention != tc.wantAttention {
			t.Errorf("%s: attention = %v, want %v", tc.name, task.RequiresAttention, tc.wantAttention)
		}
	}
}

func TestUnparseableDeadlineKeepsText(t *testing.T) {
	task := &tasks.Task{}
	Apply(task, resultWith(map[string]extraction.FieldScore{
		extraction.FieldProject:  {Value: "Work", Confidence: 0.9},
		extraction.FieldDeadline: {Value: "whenever the stars align", Confidence: 0.9},
	}), 0.7, ref)

	if task.DeadlineText != "whenever the stars align" {
		t.Errorf("deadline text = %q", task.DeadlineText)
	}
	if task.DeadlineParsed != nil {
		t.Errorf("unparseable deadline produced a timestamp: %v", task.DeadlineParsed)
	}
}

func TestAttentionInvariantHoldsForRandomConfidences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	names := extraction.AllFields()

	for i := 0; i < 200; i++ {
		fields := make(map[string]extraction.FieldScore, len(names))
		for _, name := range names {
			score := extraction.FieldScore{Confidence: rng.Float64()}
			switch name {
			case extraction.FieldPersons, extraction.FieldDependencies, extraction.FieldTags:
				score.Value = []string{"value"}
			case extraction.FieldEffort:
				score.Value = 30
			default:
				score.Value = "value"
			}
			if rng.Intn(5) == 0 {
				score.Value = nil
			}
			fields[name] = score
		}

		task := &tasks.Task{}
		Apply(task, resultWith(fields), 0.7, ref)

		wantAttention := task.Project == ""
		if task.RequiresAttention != wantAttention {
			t.Fatalf("iteration %d: attention = %v with project %q (fields %+v)",
				i, task.RequiresAttention, task.Project, fields[extraction.FieldProject])
		}
		if task.DeadlineParsed != nil && task.DeadlineText == "" {
			t.Fatalf("iteration %d: parsed deadline without text", i)
		}
	}
}

func TestNilInputsAreNoOps(t *testing.T) {
	Apply(nil, resultWith(nil), 0.7, ref)
	task := &tasks.Task{}
	Apply(task, nil, 0.7, ref)
	if task.EnrichedText != "" {
		t.Error("nil result mutated the task")
	}
}
