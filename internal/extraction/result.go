package extraction

// Canonical metadata field names shared with the confidence gate.
const (
	FieldProject      = "project"
	FieldPersons      = "persons"
	FieldDeadline     = "deadline"
	FieldTaskType     = "task_type"
	FieldPriority     = "priority"
	FieldEffort       = "effort_estimate"
	FieldDependencies = "dependencies"
	FieldTags         = "tags"
)

// AllFields lists every metadata field in display order.
func AllFields() []string {
	return []string{
		FieldProject,
		FieldPersons,
		FieldDeadline,
		FieldTaskType,
		FieldPriority,
		FieldEffort,
		FieldDependencies,
		FieldTags,
	}
}

// FieldScore pairs an extracted value with the model's confidence in it.
type FieldScore struct {
	Value      any
	Confidence float64
}

// Result is the outcome of one extraction call.
type Result struct {
	EnrichedText   string
	Fields         map[string]FieldScore
	ChainOfThought string
	Raw            string
}

// StringField returns a string-typed field value with its confidence.
// Absent or non-string values report ok=false.
func (r *Result) StringField(name string) (string, float64, bool) {
	score, ok := r.Fields[name]
	if !ok {
		return "", 0, false
	}
	value, ok := score.Value.(string)
	if !ok || value == "" {
		return "", score.Confidence, false
	}
	return value, score.Confidence, true
}

// StringsField returns a string-slice field value with its confidence.
func (r *Result) StringsField(name string) ([]string, float64, bool) {
	score, ok := r.Fields[name]
	if !ok {
		return nil, 0, false
	}
	values, ok := score.Value.([]string)
	if !ok || len(values) == 0 {
		return nil, score.Confidence, false
	}
	return values, score.Confidence, true
}

// IntField returns an int-typed field value with its confidence.
func (r *Result) IntField(name string) (int, float64, bool) {
	score, ok := r.Fields[name]
	if !ok {
		return 0, 0, false
	}
	value, ok := score.Value.(int)
	if !ok {
		return 0, score.Confidence, false
	}
	return value, score.Confidence, true
}

// Confidence returns the confidence score recorded for a field (0 when absent).
func (r *Result) Confidence(name string) float64 {
	return r.Fields[name].Confidence
}

func emptyResult() *Result {
	fields := make(map[string]FieldScore, len(AllFields()))
	for _, name := range AllFields() {
		fields[name] = FieldScore{}
	}
	return &Result{Fields: fields}
}
