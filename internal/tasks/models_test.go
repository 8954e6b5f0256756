package tasks

import (
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		input string
		want  Status
		ok    bool
	}{
		{"pending", StatusPending, true},
		{"  Processing ", StatusProcessing, true},
		{"COMPLETED", StatusCompleted, true},
		{"failed", StatusFailed, true},
		{"", "", false},
		{"done", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.input)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q, %v", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if StatusPending.IsTerminal() || StatusProcessing.IsTerminal() {
		t.Error("active statuses reported terminal")
	}
	if !StatusCompleted.IsTerminal() || !StatusFailed.IsTerminal() {
		t.Error("terminal statuses reported active")
	}
}

func TestClearEnrichmentKeepsIdentity(t *testing.T) {
	deadline := time.Now()
	effort := 30
	task := &Task{
		ID:                "abc",
		RawInput:          "ship the release",
		EnrichedText:      "Ship the release.",
		Status:            StatusCompleted,
		Project:           "release",
		Persons:           []string{"Ana"},
		TaskType:          "action",
		Priority:          "high",
		DeadlineText:      "friday",
		DeadlineParsed:    &deadline,
		EffortEstimate:    &effort,
		Dependencies:      []string{"cut branch"},
		Tags:              []string{"release"},
		Suggestions:       map[string]Suggestion{"priority": {Value: "low", Confidence: 0.2}},
		RequiresAttention: true,
		ErrorMessage:      "stale",
		RetryCount:        2,
	}

	task.ClearEnrichment()

	if task.ID != "abc" || task.RawInput != "ship the release" {
		t.Error("identity fields changed")
	}
	if task.RetryCount != 2 {
		t.Errorf("retry count = %d, want 2", task.RetryCount)
	}
	if task.EnrichedText != "" || task.Project != "" || task.Persons != nil ||
		task.TaskType != "" || task.Priority != "" || task.DeadlineText != "" ||
		task.DeadlineParsed != nil || task.EffortEstimate != nil ||
		task.Dependencies != nil || task.Tags != nil || task.Suggestions != nil ||
		task.RequiresAttention || task.ErrorMessage != "" {
		t.Errorf("enrichment data survived clear: %+v", task)
	}
}

func TestValidateInvariants(t *testing.T) {
	cases := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{"pending clean", Task{Status: StatusPending}, false},
		{"pending with enrichment", Task{Status: StatusPending, EnrichedText: "x"}, true},
		{"completed with text", Task{Status: StatusCompleted, EnrichedText: "done"}, false},
		{"completed without text", Task{Status: StatusCompleted}, true},
		{"failed with message", Task{Status: StatusFailed, ErrorMessage: "boom"}, false},
		{"failed without message", Task{Status: StatusFailed}, true},
		{
			"parsed deadline without text",
			Task{Status: StatusCompleted, EnrichedText: "x", DeadlineParsed: timePtr(time.Now())},
			true,
		},
		{
			"parsed deadline with text",
			Task{Status: StatusCompleted, EnrichedText: "x", DeadlineText: "friday", DeadlineParsed: timePtr(time.Now())},
			false,
		},
	}
	for _, tc := range cases {
		err := tc.task.validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: validate() = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func timePtr(v time.Time) *time.Time { return &v }
