package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
	})
}

func chatResponse(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	encoded, _ := json.Marshal(payload)
	return string(encoded)
}

const samplePayload = `{
  "enriched_text": "Call Sarah Johnson about the ProjectX quarterly review tomorrow at 3pm.",
  "project": "ProjectX",
  "project_confidence": 0.95,
  "persons": ["sarah johnson"],
  "persons_confidence": 1.0,
  "deadline": "tomorrow at 3pm",
  "deadline_confidence": 1.0,
  "task_type": "call",
  "task_type_confidence": 1.0,
  "priority": "urgent",
  "priority_confidence": 1.0,
  "effort_estimate": 30,
  "effort_confidence": 0.6,
  "dependencies": [],
  "dependencies_confidence": 0.0,
  "tags": ["quarterly-review"],
  "tags_confidence": 0.7,
  "chain_of_thought": "Action verb and explicit names."
}`

func TestExtractParsesAndPostProcesses(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req struct {
			ResponseFormat map[string]string `json:"response_format"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.ResponseFormat["type"] != "json_object" {
			t.Errorf("response_format = %v", req.ResponseFormat)
		}
		_, _ = w.Write([]byte(chatResponse(samplePayload)))
	})

	result, err := client.Extract(context.Background(), "call sarah johnson re ProjectX reveiw tomorow 3pm #followup")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization = %q", gotAuth)
	}

	if result.EnrichedText != "Call Sarah Johnson about the ProjectX quarterly review tomorrow at 3pm." {
		t.Errorf("enriched text = %q", result.EnrichedText)
	}

	project, confidence, ok := result.StringField(FieldProject)
	if !ok || project != "ProjectX" || confidence != 0.95 {
		t.Errorf("project = %q (%.2f, %v)", project, confidence, ok)
	}

	persons, _, ok := result.StringsField(FieldPersons)
	if !ok || len(persons) != 1 || persons[0] != "Sarah Johnson" {
		t.Errorf("persons = %v, want title-cased [Sarah Johnson]", persons)
	}

	tags, _, ok := result.StringsField(FieldTags)
	if !ok {
		t.Fatal("tags missing")
	}
	joined := strings.Join(tags, ",")
	if !strings.Contains(joined, "followup") || !strings.Contains(joined, "quarterly-review") {
		t.Errorf("tags = %v, want hashtag merged with model tags", tags)
	}

	effort, _, ok := result.IntField(FieldEffort)
	if !ok || effort != 30 {
		t.Errorf("effort = %d (%v)", effort, ok)
	}
}

func TestExtractHandlesFencedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatResponse("```json\n" + samplePayload + "\n```")))
	})

	result, err := client.Extract(context.Background(), "call sarah")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if _, _, ok := result.StringField(FieldProject); !ok {
		t.Error("fenced payload not decoded")
	}
}

func TestExtractCoercesUnknownEnums(t *testing.T) {
	payload := `{"enriched_text":"x","task_type":"standup","task_type_confidence":0.9,"priority":"critical","priority_confidence":0.9}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatResponse(payload)))
	})

	result, err := client.Extract(context.Background(), "standup")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if taskType, _, _ := result.StringField(FieldTaskType); taskType != "other" {
		t.Errorf("task type = %q, want other", taskType)
	}
	if priority, _, _ := result.StringField(FieldPriority); priority != "normal" {
		t.Errorf("priority = %q, want normal", priority)
	}
}

func TestExtractClampsConfidence(t *testing.T) {
	payload := `{"enriched_text":"x","project":"P","project_confidence":1.7,"deadline":"friday","deadline_confidence":-0.2}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatResponse(payload)))
	})

	result, err := client.Extract(context.Background(), "something")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got := result.Confidence(FieldProject); got != 1 {
		t.Errorf("project confidence = %v, want clamped to 1", got)
	}
	if got := result.Confidence(FieldDeadline); got != 0 {
		t.Errorf("deadline confidence = %v, want clamped to 0", got)
	}
}

func TestExtractEmptyEnrichedTextFallsBackToInput(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatResponse(`{"project":null,"project_confidence":0.0}`)))
	})

	result, err := client.Extract(context.Background(), "plain task text")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if result.EnrichedText != "plain task text" {
		t.Errorf("enriched text = %q, want original input", result.EnrichedText)
	}
}

func TestExtractBlankInputShortCircuits(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	result, err := client.Extract(context.Background(), "   ")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if called {
		t.Error("blank input reached the service")
	}
	for _, name := range AllFields() {
		if result.Confidence(name) != 0 {
			t.Errorf("field %s confidence = %v, want 0", name, result.Confidence(name))
		}
	}
}

func TestExtractTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(chatResponse(samplePayload)))
	}))
	t.Cleanup(server.Close)

	client := NewClient(
		Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"},
		WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}),
	)

	_, err := client.Extract(context.Background(), "slow task")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
}

func TestExtractMalformedContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatResponse("I cannot help with that.")))
	})

	_, err := client.Extract(context.Background(), "a task")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("error = %v, want ErrMalformed", err)
	}
}

func TestExtractEmptyContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":""},"finish_reason":"content_filter"}]}`))
	})

	_, err := client.Extract(context.Background(), "a task")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("error = %v, want ErrMalformed", err)
	}
}

func TestExtractHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
	})

	_, err := client.Extract(context.Background(), "a task")
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("error = %v, want http 503", err)
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrMalformed) {
		t.Errorf("status error misclassified: %v", err)
	}
}

func TestExtractMissingAPIKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Model: "m"})
	if _, err := client.Extract(context.Background(), "a task"); err == nil {
		t.Fatal("missing api key accepted")
	}
}

func TestDecodeJSONQuirks(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"plain object", `{"ok":true}`, false},
		{"fenced", "```json\n{\"ok\":true}\n```", false},
		{"prose wrapped", `Here is the JSON: {"ok":true} hope that helps`, false},
		{"empty", "", true},
		{"no json", "sorry, no", true},
	}
	for _, tc := range cases {
		var target struct {
			OK bool `json:"ok"`
		}
		err := DecodeJSON(tc.content, &target)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: DecodeJSON error = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
		if err == nil && !target.OK {
			t.Errorf("%s: decoded value wrong", tc.name)
		}
	}
}
