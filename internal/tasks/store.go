package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Create inserts a new task with status pending. Blank input is rejected.
func (s *Store) Create(ctx context.Context, rawInput string) (*Task, error) {
	if strings.TrimSpace(rawInput) == "" {
		return nil, ErrEmptyInput
	}

	now := time.Now().UTC()
	task := &Task{
		ID:        uuid.NewString(),
		RawInput:  rawInput,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO tasks (id, raw_input, status, retry_count, created_at, updated_at)
         VALUES (?, ?, ?, 0, ?, ?)`,
		task.ID,
		task.RawInput,
		task.Status,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

// GetByID fetches a task by identifier. Unknown ids return ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// List returns tasks newest first, optionally filtered by status.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Task, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + taskColumns + ` FROM tasks`
	orderClause := ` ORDER BY created_at DESC, id DESC`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var items []*Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, task)
	}
	return items, rows.Err()
}

// PendingIDs returns ids of pending tasks, oldest first, for orchestrator claims.
func (s *Store) PendingIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM tasks WHERE status = ? ORDER BY created_at, id`, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("query pending ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Transition atomically moves a task from expected to next, applying mutate
// to the task copy that gets persisted. The swap is guarded by
// `WHERE status = expected`, so a concurrent writer that moved the task first
// causes an InvalidTransitionError and this write is dropped.
func (s *Store) Transition(ctx context.Context, id string, expected, next Status, mutate func(*Task)) (*Task, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != expected {
		return nil, &InvalidTransitionError{ID: id, Expected: expected, Actual: current.Status, Next: next}
	}
	if !transitionAllowed(current, next) {
		return nil, &InvalidTransitionError{ID: id, Expected: expected, Actual: current.Status, Next: next}
	}

	updated := current.clone()
	if mutate != nil {
		mutate(updated)
	}
	updated.Status = next
	if next == StatusPending {
		// A pending task must look freshly created (retry count survives).
		retries := updated.RetryCount
		updated.ClearEnrichment()
		updated.RetryCount = retries
	}
	if err := updated.validate(); err != nil {
		return nil, fmt.Errorf("transition task %s to %s: %w", id, next, err)
	}
	updated.UpdatedAt = time.Now().UTC()

	personsJSON, depsJSON, tagsJSON, suggestionsJSON, err := marshalTaskJSON(updated)
	if err != nil {
		return nil, fmt.Errorf("transition task %s: %w", id, err)
	}

	res, err := s.execWithRetry(
		ctx,
		`UPDATE tasks
         SET status = ?, enriched_text = ?, project = ?, persons_json = ?,
             task_type = ?, priority = ?, deadline_text = ?, deadline_parsed = ?,
             effort_estimate = ?, dependencies_json = ?, tags_json = ?,
             suggestions_json = ?, requires_attention = ?, error_message = ?,
             retry_count = ?, updated_at = ?
         WHERE id = ? AND status = ?`,
		updated.Status,
		nullableString(updated.EnrichedText),
		nullableString(updated.Project),
		personsJSON,
		nullableString(updated.TaskType),
		nullableString(updated.Priority),
		nullableString(updated.DeadlineText),
		nullableTime(updated.DeadlineParsed),
		nullableInt(updated.EffortEstimate),
		depsJSON,
		tagsJSON,
		suggestionsJSON,
		boolToInt(updated.RequiresAttention),
		nullableString(updated.ErrorMessage),
		updated.RetryCount,
		updated.UpdatedAt.Format(time.RFC3339Nano),
		id,
		expected,
	)
	if err != nil {
		return nil, fmt.Errorf("transition task %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("transition rows affected: %w", err)
	}
	if affected == 0 {
		// Lost the race: the row moved (or vanished) between read and swap.
		fresh, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, &InvalidTransitionError{ID: id, Expected: expected, Actual: fresh.Status, Next: next}
	}
	return updated, nil
}

// Remove deletes a task. The bool reports whether a row existed.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// RemoveUnlessCompleted deletes a task only while it is still cancellable.
// The delete is guarded by status so a worker completing the task at the
// same moment wins the race and the row survives. The flags report whether
// a row was deleted and whether one still exists afterwards.
func (s *Store) RemoveUnlessCompleted(ctx context.Context, id string) (removed, exists bool, err error) {
	res, err := s.execWithRetry(ctx,
		`DELETE FROM tasks WHERE id = ? AND status != ?`, id, StatusCompleted)
	if err != nil {
		return false, false, fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, false, fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return true, false, nil
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, false, nil
		}
		return false, false, err
	}
	return false, true, nil
}

// ResetStuckProcessing returns tasks stranded in processing back to pending.
// Rows only linger there when a previous run died mid-claim, so this runs
// once before the worker pool starts.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE tasks SET status = ?, updated_at = ? WHERE status = ?`,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusProcessing,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck tasks: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns a count of tasks grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates task state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusProcessing:
			health.Processing += count
		case StatusCompleted:
			health.Completed += count
		case StatusFailed:
			health.Failed += count
		}
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM tasks WHERE status = ? AND requires_attention = 1`, StatusCompleted)
	if err := row.Scan(&health.NeedsAttention); err != nil {
		return HealthSummary{}, fmt.Errorf("count attention tasks: %w", err)
	}
	return health, nil
}

func transitionAllowed(current *Task, next Status) bool {
	for _, candidate := range allowedTransitions[current.Status] {
		if candidate != next {
			continue
		}
		if current.Status == StatusCompleted && next == StatusPending {
			return current.RequiresAttention
		}
		return true
	}
	return false
}

// validate checks the cross-field invariants every persisted task must hold.
func (t *Task) validate() error {
	switch t.Status {
	case StatusPending:
		if t.EnrichedText != "" || t.Project != "" || t.Suggestions != nil {
			return errors.New("pending task must carry no enrichment data")
		}
	case StatusCompleted:
		if strings.TrimSpace(t.EnrichedText) == "" {
			return errors.New("completed task requires enriched text")
		}
	case StatusFailed:
		if strings.TrimSpace(t.ErrorMessage) == "" {
			return errors.New("failed task requires an error message")
		}
	}
	if t.DeadlineParsed != nil && strings.TrimSpace(t.DeadlineText) == "" {
		return errors.New("parsed deadline requires deadline text")
	}
	return nil
}

func (t *Task) clone() *Task {
	cp := *t
	cp.Persons = append([]string(nil), t.Persons...)
	cp.Dependencies = append([]string(nil), t.Dependencies...)
	cp.Tags = append([]string(nil), t.Tags...)
	if t.DeadlineParsed != nil {
		when := *t.DeadlineParsed
		cp.DeadlineParsed = &when
	}
	if t.EffortEstimate != nil {
		effort := *t.EffortEstimate
		cp.EffortEstimate = &effort
	}
	if t.Suggestions != nil {
		cp.Suggestions = make(map[string]Suggestion, len(t.Suggestions))
		for name, suggestion := range t.Suggestions {
			cp.Suggestions[name] = suggestion
		}
	}
	return &cp
}

const taskColumns = "id, raw_input, enriched_text, status, project, persons_json, task_type, priority, deadline_text, deadline_parsed, effort_estimate, dependencies_json, tags_json, suggestions_json, requires_attention, error_message, retry_count, created_at, updated_at"

func scanTask(scanner interface{ Scan(dest ...any) error }) (*Task, error) {
	var (
		id                string
		rawInput          string
		enrichedText      sql.NullString
		statusStr         string
		project           sql.NullString
		personsJSON       sql.NullString
		taskType          sql.NullString
		priority          sql.NullString
		deadlineText      sql.NullString
		deadlineParsedRaw sql.NullString
		effortEstimate    sql.NullInt64
		depsJSON          sql.NullString
		tagsJSON          sql.NullString
		suggestionsJSON   sql.NullString
		requiresAttention sql.NullInt64
		errorMessage      sql.NullString
		retryCount        int
		createdRaw        string
		updatedRaw        string
	)

	if err := scanner.Scan(
		&id,
		&rawInput,
		&enrichedText,
		&statusStr,
		&project,
		&personsJSON,
		&taskType,
		&priority,
		&deadlineText,
		&deadlineParsedRaw,
		&effortEstimate,
		&depsJSON,
		&tagsJSON,
		&suggestionsJSON,
		&requiresAttention,
		&errorMessage,
		&retryCount,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	task := &Task{
		ID:           id,
		RawInput:     rawInput,
		EnrichedText: enrichedText.String,
		Status:       Status(statusStr),
		Project:      project.String,
		TaskType:     taskType.String,
		Priority:     priority.String,
		DeadlineText: deadlineText.String,
		ErrorMessage: errorMessage.String,
		RetryCount:   retryCount,
	}
	if requiresAttention.Valid {
		task.RequiresAttention = requiresAttention.Int64 != 0
	}
	if effortEstimate.Valid {
		effort := int(effortEstimate.Int64)
		task.EffortEstimate = &effort
	}
	if personsJSON.Valid && personsJSON.String != "" {
		if err := json.Unmarshal([]byte(personsJSON.String), &task.Persons); err != nil {
			return nil, fmt.Errorf("decode persons: %w", err)
		}
	}
	if depsJSON.Valid && depsJSON.String != "" {
		if err := json.Unmarshal([]byte(depsJSON.String), &task.Dependencies); err != nil {
			return nil, fmt.Errorf("decode dependencies: %w", err)
		}
	}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &task.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	if suggestionsJSON.Valid && suggestionsJSON.String != "" {
		if err := json.Unmarshal([]byte(suggestionsJSON.String), &task.Suggestions); err != nil {
			return nil, fmt.Errorf("decode suggestions: %w", err)
		}
	}
	if deadlineParsedRaw.Valid && deadlineParsedRaw.String != "" {
		if when, err := time.Parse(time.RFC3339Nano, deadlineParsedRaw.String); err == nil {
			task.DeadlineParsed = &when
		}
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		task.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		task.UpdatedAt = updated
	}
	return task, nil
}

func marshalTaskJSON(t *Task) (persons, deps, tags, suggestions any, err error) {
	persons, err = marshalNullable(t.Persons, len(t.Persons) == 0)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	deps, err = marshalNullable(t.Dependencies, len(t.Dependencies) == 0)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	tags, err = marshalNullable(t.Tags, len(t.Tags) == 0)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	suggestions, err = marshalNullable(t.Suggestions, len(t.Suggestions) == 0)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return persons, deps, tags, suggestions, nil
}

func marshalNullable(value any, empty bool) (any, error) {
	if empty {
		return nil, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode field: %w", err)
	}
	return string(encoded), nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
