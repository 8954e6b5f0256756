package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"scribe/internal/textutil"
)

const (
	jsonResponseType   = "json_object"
	defaultHTTPTimeout = 60 * time.Second
)

// ErrTimeout indicates the extraction service did not answer within the
// configured deadline.
var ErrTimeout = errors.New("extraction timed out")

// ErrMalformed indicates the service answered but the payload could not be
// used (empty content, refusal, or broken JSON).
var ErrMalformed = errors.New("extraction returned malformed output")

// Config captures the runtime settings required to reach the extraction service.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// DefaultHTTPTimeout returns the default per-request deadline.
func DefaultHTTPTimeout() time.Duration {
	return defaultHTTPTimeout
}

// Client wraps an OpenRouter-compatible chat completion API. Each Extract call
// is exactly one request; failed tasks are resubmitted by explicit user retry,
// never by the client.
type Client struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithClock overrides the reference time source (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient constructs an extraction client from the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			Referer:        strings.TrimSpace(cfg.Referer),
			Title:          strings.TrimSpace(cfg.Title),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://openrouter.ai/api/v1/chat/completions"
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	return client
}

// Extract enriches raw task text and pulls structured metadata from it.
// Blank input short-circuits to an all-zero-confidence result without a call.
func (c *Client) Extract(ctx context.Context, rawInput string) (*Result, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return emptyResult(), nil
	}
	if c.cfg.APIKey == "" {
		return nil, errors.New("extract: api key required")
	}

	payload := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: ExtractionPrompt(c.now())},
			{Role: "user", Content: "Extract metadata from this task:\n\n" + trimmed},
		},
		Temperature:    0,
		ResponseFormat: map[string]string{"type": jsonResponseType},
	}

	content, err := c.sendChatRequest(ctx, payload)
	if err != nil {
		return nil, err
	}

	var wire wirePayload
	if err := DecodeJSON(content, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	result := wire.toResult(trimmed)
	result.Raw = content
	return result, nil
}

type chatCompletionRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) sendChatRequest(ctx context.Context, payload chatCompletionRequest) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("extract: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("extract: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.Referer)
		req.Header.Set("Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		req.Header.Set("X-Title", c.cfg.Title)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w after %s", ErrTimeout, c.timeoutDuration())
		}
		return "", fmt.Errorf("extract: http error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w after %s", ErrTimeout, c.timeoutDuration())
		}
		return "", fmt.Errorf("extract: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("extract: http %d: %s", resp.StatusCode, summarizePayloadSnippet(string(body)))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrMalformed, err)
	}
	if completion.Error != nil {
		return "", fmt.Errorf("extract: api error: %s", strings.TrimSpace(completion.Error.Message))
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrMalformed)
	}
	choice := completion.Choices[0]
	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty content (finish_reason=%q, refusal=%q)",
			ErrMalformed, choice.FinishReason, choice.Message.Refusal)
	}
	return content, nil
}

func (c *Client) timeoutDuration() time.Duration {
	if c == nil || c.httpClient == nil || c.httpClient.Timeout <= 0 {
		return defaultHTTPTimeout
	}
	return c.httpClient.Timeout
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}
	return false
}

var (
	knownTaskTypes = map[string]struct{}{
		"meeting": {}, "call": {}, "email": {}, "review": {},
		"development": {}, "research": {}, "administrative": {}, "other": {},
	}
	knownPriorities = map[string]struct{}{
		"low": {}, "normal": {}, "high": {}, "urgent": {},
	}
)

type wirePayload struct {
	EnrichedText           string   `json:"enriched_text"`
	Project                *string  `json:"project"`
	ProjectConfidence      float64  `json:"project_confidence"`
	Persons                []string `json:"persons"`
	PersonsConfidence      float64  `json:"persons_confidence"`
	Deadline               *string  `json:"deadline"`
	DeadlineConfidence     float64  `json:"deadline_confidence"`
	TaskType               *string  `json:"task_type"`
	TaskTypeConfidence     float64  `json:"task_type_confidence"`
	Priority               *string  `json:"priority"`
	PriorityConfidence     float64  `json:"priority_confidence"`
	EffortEstimate         *int     `json:"effort_estimate"`
	EffortConfidence       float64  `json:"effort_confidence"`
	Dependencies           []string `json:"dependencies"`
	DependenciesConfidence float64  `json:"dependencies_confidence"`
	Tags                   []string `json:"tags"`
	TagsConfidence         float64  `json:"tags_confidence"`
	ChainOfThought         string   `json:"chain_of_thought"`
}

// toResult applies the post-processing pass: person names are title-cased,
// hashtags from the original text supplement the model's tags, and the
// task_type/priority enums are coerced into their allowed value sets.
func (w *wirePayload) toResult(original string) *Result {
	result := emptyResult()

	result.EnrichedText = strings.TrimSpace(w.EnrichedText)
	if result.EnrichedText == "" {
		result.EnrichedText = original
	}
	result.ChainOfThought = strings.TrimSpace(w.ChainOfThought)

	if w.Project != nil && strings.TrimSpace(*w.Project) != "" {
		result.Fields[FieldProject] = FieldScore{
			Value:      strings.TrimSpace(*w.Project),
			Confidence: clampConfidence(w.ProjectConfidence),
		}
	} else {
		result.Fields[FieldProject] = FieldScore{Confidence: clampConfidence(w.ProjectConfidence)}
	}

	var persons []string
	for _, name := range w.Persons {
		if normalized := textutil.NormalizePersonName(name); normalized != "" {
			persons = append(persons, normalized)
		}
	}
	result.Fields[FieldPersons] = FieldScore{
		Value:      anyOrNil(persons),
		Confidence: clampConfidence(w.PersonsConfidence),
	}

	if w.Deadline != nil && strings.TrimSpace(*w.Deadline) != "" {
		result.Fields[FieldDeadline] = FieldScore{
			Value:      strings.TrimSpace(*w.Deadline),
			Confidence: clampConfidence(w.DeadlineConfidence),
		}
	} else {
		result.Fields[FieldDeadline] = FieldScore{Confidence: clampConfidence(w.DeadlineConfidence)}
	}

	result.Fields[FieldTaskType] = enumField(w.TaskType, w.TaskTypeConfidence, knownTaskTypes, "other")
	result.Fields[FieldPriority] = enumField(w.Priority, w.PriorityConfidence, knownPriorities, "normal")

	if w.EffortEstimate != nil && *w.EffortEstimate > 0 {
		result.Fields[FieldEffort] = FieldScore{
			Value:      *w.EffortEstimate,
			Confidence: clampConfidence(w.EffortConfidence),
		}
	} else {
		result.Fields[FieldEffort] = FieldScore{Confidence: clampConfidence(w.EffortConfidence)}
	}

	var deps []string
	for _, dep := range w.Dependencies {
		if trimmed := strings.TrimSpace(dep); trimmed != "" {
			deps = append(deps, trimmed)
		}
	}
	result.Fields[FieldDependencies] = FieldScore{
		Value:      anyOrNil(deps),
		Confidence: clampConfidence(w.DependenciesConfidence),
	}

	result.Fields[FieldTags] = FieldScore{
		Value:      anyOrNil(mergeTags(original, w.Tags)),
		Confidence: clampConfidence(w.TagsConfidence),
	}

	return result
}

func enumField(value *string, confidence float64, allowed map[string]struct{}, fallback string) FieldScore {
	if value == nil || strings.TrimSpace(*value) == "" {
		return FieldScore{Confidence: clampConfidence(confidence)}
	}
	normalized := strings.ToLower(strings.TrimSpace(*value))
	if _, ok := allowed[normalized]; !ok {
		normalized = fallback
	}
	return FieldScore{Value: normalized, Confidence: clampConfidence(confidence)}
}

// mergeTags combines hashtags found in the original text with the model's
// tags, deduplicated case-insensitively and sorted for stable output.
func mergeTags(original string, modelTags []string) []string {
	seen := make(map[string]struct{})
	var merged []string
	add := func(tag string) {
		normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tag, "#")))
		if normalized == "" {
			return
		}
		if _, ok := seen[normalized]; ok {
			return
		}
		seen[normalized] = struct{}{}
		merged = append(merged, normalized)
	}
	for _, tag := range textutil.ExtractTags(original) {
		add(tag)
	}
	for _, tag := range modelTags {
		add(tag)
	}
	sort.Strings(merged)
	return merged
}

func clampConfidence(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

func anyOrNil(values []string) any {
	if len(values) == 0 {
		return nil
	}
	return values
}
