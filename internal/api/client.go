package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client provides HTTP access to a running daemon. The CLI uses it to poll
// the daemon's read model and to issue create/retry/cancel actions.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a client for the daemon listening at bind (host:port).
func NewClient(bind string) *Client {
	base := strings.TrimSpace(bind)
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateTask submits raw text for capture and enrichment.
func (c *Client) CreateTask(ctx context.Context, text string) (*TaskView, error) {
	var resp TaskResponse
	if err := c.do(ctx, http.MethodPost, "/api/tasks", CreateTaskRequest{Text: text}, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// ListTasks returns all tasks, optionally filtered by status.
func (c *Client) ListTasks(ctx context.Context, statuses ...string) ([]TaskView, error) {
	path := "/api/tasks"
	if len(statuses) > 0 {
		path += "?status=" + strings.Join(statuses, ",")
	}
	var resp TaskListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// GetTask fetches one task by id.
func (c *Client) GetTask(ctx context.Context, id string) (*TaskView, error) {
	var resp TaskResponse
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// RetryTask reopens a failed or attention-flagged task.
func (c *Client) RetryTask(ctx context.Context, id string) (*TaskView, error) {
	var resp TaskResponse
	if err := c.do(ctx, http.MethodPost, "/api/tasks/"+id+"/retry", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// CancelTask removes a task from the workflow.
func (c *Client) CancelTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil)
}

// Status fetches daemon health and task counts.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("daemon unreachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr ErrorResponse
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: http %d", method, path, resp.StatusCode)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
