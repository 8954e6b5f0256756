package api

// TaskView describes a task in a transport-friendly format. Lane is always
// derived from status and the attention flag, never stored.
type TaskView struct {
	ID                string                    `json:"id"`
	RawInput          string                    `json:"rawInput"`
	EnrichedText      string                    `json:"enrichedText,omitempty"`
	Status            string                    `json:"status"`
	Lane              string                    `json:"lane"`
	Project           string                    `json:"project,omitempty"`
	Persons           []string                  `json:"persons,omitempty"`
	TaskType          string                    `json:"taskType,omitempty"`
	Priority          string                    `json:"priority,omitempty"`
	DeadlineText      string                    `json:"deadlineText,omitempty"`
	DeadlineParsed    string                    `json:"deadlineParsed,omitempty"`
	EffortEstimate    *int                      `json:"effortEstimate,omitempty"`
	Dependencies      []string                  `json:"dependencies,omitempty"`
	Tags              []string                  `json:"tags,omitempty"`
	Suggestions       map[string]SuggestionView `json:"suggestions,omitempty"`
	RequiresAttention bool                      `json:"requiresAttention"`
	ErrorMessage      string                    `json:"errorMessage,omitempty"`
	RetryCount        int                       `json:"retryCount"`
	CreatedAt         string                    `json:"createdAt,omitempty"`
	UpdatedAt         string                    `json:"updatedAt,omitempty"`
}

// SuggestionView carries a below-threshold extraction for user confirmation.
type SuggestionView struct {
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
}

// CreateTaskRequest is the body for task creation.
type CreateTaskRequest struct {
	Text string `json:"text"`
}

// TaskListResponse wraps a collection of tasks.
type TaskListResponse struct {
	Tasks []TaskView `json:"tasks"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task TaskView `json:"task"`
}

// StatusResponse aggregates daemon runtime information.
type StatusResponse struct {
	Running              bool           `json:"running"`
	DatabasePath         string         `json:"databasePath,omitempty"`
	ExtractionConfigured bool           `json:"extractionConfigured"`
	Counts               map[string]int `json:"counts"`
	NeedsAttention       int            `json:"needsAttention"`
	Total                int            `json:"total"`
}

// ErrorResponse is the body returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}
