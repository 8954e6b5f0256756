package logging

// Canonical attribute keys shared across subsystems.
const (
	FieldComponent = "component"
	FieldTaskID    = "task_id"
	FieldRequestID = "request_id"
	FieldStatus    = "status"
	FieldLane      = "lane"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
)
