// Package langgraph is a minimal REST client for the LangGraph Platform
// runs API. The bridge only consumes two operations: create a run on a
// thread, and read a thread's state.
package langgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/models"
)

// Run is the backend's record of one execution, the subset the bridge reads.
type Run struct {
	RunID    string `json:"run_id"`
	ThreadID string `json:"thread_id"`
	Status   string `json:"status"`
}

// Client talks to a LangGraph deployment.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the deployment at baseURL. apiKey may be
// empty for deployments without auth.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateRun starts a run on the given thread. The thread is created on first
// use (if_not_exists) and the request's multitask strategy decides what
// happens to an in-flight run on the same thread.
func (c *Client) CreateRun(ctx context.Context, threadID string, req *models.RunRequest) (*Run, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal run request: %w", err)
	}

	url := fmt.Sprintf("%s/threads/%s/runs", c.baseURL, threadID)
	data, err := c.do(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}
	return &run, nil
}

// GetThreadState fetches the raw state of a thread.
func (c *Client) GetThreadState(ctx context.Context, threadID string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/threads/%s/state", c.baseURL, threadID)
	data, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("get thread state: %w", err)
	}
	return json.RawMessage(data), nil
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, url, resp.StatusCode, truncate(data, 256))
	}
	return data, nil
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
