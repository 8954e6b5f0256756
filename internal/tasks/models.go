package tasks

import (
	"strings"
	"time"
)

// Status represents the enrichment lifecycle of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// allowedTransitions is the complete legal edge set of the state machine.
// Retry reopens terminal states back to pending; completed->pending is only
// legal for tasks flagged for attention, which Transition checks separately.
var allowedTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusFailed:     {StatusPending},
	StatusCompleted:  {StatusPending},
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status ends the enrichment workflow.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Suggestion carries an extracted value that missed the confidence threshold
// and awaits human confirmation.
type Suggestion struct {
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Task is the central entity: raw user input plus the structured record the
// enrichment pipeline produces.
type Task struct {
	ID           string
	RawInput     string
	EnrichedText string
	Status       Status

	Project        string
	Persons        []string
	TaskType       string
	Priority       string
	DeadlineText   string
	DeadlineParsed *time.Time
	EffortEstimate *int
	Dependencies   []string
	Tags           []string

	Suggestions       map[string]Suggestion
	RequiresAttention bool
	ErrorMessage      string
	RetryCount        int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClearEnrichment resets every field the pipeline populates, returning the
// task to its freshly-created shape (raw input and retry count are kept).
func (t *Task) ClearEnrichment() {
	t.EnrichedText = ""
	t.Project = ""
	t.Persons = nil
	t.TaskType = ""
	t.Priority = ""
	t.DeadlineText = ""
	t.DeadlineParsed = nil
	t.EffortEstimate = nil
	t.Dependencies = nil
	t.Tags = nil
	t.Suggestions = nil
	t.RequiresAttention = false
	t.ErrorMessage = ""
}

// HealthSummary describes aggregated task counts per lifecycle state.
type HealthSummary struct {
	Total          int
	Pending        int
	Processing     int
	Completed      int
	Failed         int
	NeedsAttention int
}
