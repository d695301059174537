package server

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/config"
	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/dispatch"
	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/models"
)

const testSigningSecret = "test-signing-secret"

// MockStateClient mocks the StateClient interface for testing
type MockStateClient struct {
	GetThreadStateFunc func(ctx context.Context, threadID string) (json.RawMessage, error)
}

var _ StateClient = (*MockStateClient)(nil)

func (m *MockStateClient) GetThreadState(ctx context.Context, threadID string) (json.RawMessage, error) {
	if m.GetThreadStateFunc != nil {
		return m.GetThreadStateFunc(ctx, threadID)
	}
	return json.RawMessage(`{"values":{"messages":[]}}`), nil
}

func newTestServer(state StateClient) (*Server, *dispatch.Queue) {
	cfg := &config.Config{
		LangGraphURL:       "http://langgraph:2024",
		AssistantID:        "asst-test",
		SlackBotToken:      "xoxb-test",
		SlackSigningSecret: testSigningSecret,
		SlackBotUserID:     "U0BOT",
		HTTPAddr:           ":0",
	}
	queue := dispatch.NewQueue()
	return New(cfg, queue, state), queue
}

// signedSlackRequest builds a POST with a valid Slack signature over body.
func signedSlackRequest(t *testing.T, target, body string) *http.Request {
	t.Helper()
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(testSigningSecret))
	h.Write([]byte(baseString))
	signature := "v0=" + fmt.Sprintf("%x", h.Sum(nil))

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", signature)
	return req
}

func TestSlackEventsURLVerification(t *testing.T) {
	srv, _ := newTestServer(&MockStateClient{})

	body := `{"type":"url_verification","challenge":"challenge-123"}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, signedSlackRequest(t, "/events/slack", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["challenge"] != "challenge-123" {
		t.Errorf("challenge = %q, want challenge-123", resp["challenge"])
	}
}

func TestSlackEventsRejectsBadSignature(t *testing.T) {
	srv, queue := newTestServer(&MockStateClient{})

	body := `{"type":"url_verification","challenge":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/events/slack", strings.NewReader(body))
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(time.Now().Unix(), 10))
	req.Header.Set("X-Slack-Signature", "v0=forged")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if queue.Len() != 0 {
		t.Error("unsigned requests must not enqueue tasks")
	}
}

func TestSlackEventsEnqueuesQualifyingMessage(t *testing.T) {
	srv, queue := newTestServer(&MockStateClient{})

	body := `{"type":"event_callback","event":{"type":"message","user":"U1","text":"<@U0BOT> hello","channel":"C1","ts":"100.1"}}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, signedSlackRequest(t, "/events/slack", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if queue.Len() != 1 {
		t.Fatalf("queue length = %d, want 1", queue.Len())
	}

	task := queue.Dequeue()
	if task.Type != models.TaskTypeSlackMessage {
		t.Errorf("task type = %s, want %s", task.Type, models.TaskTypeSlackMessage)
	}
	if task.Event.Text != "<@U0BOT> hello" {
		t.Errorf("event text = %q", task.Event.Text)
	}
	if task.Event.Channel != "C1" {
		t.Errorf("event channel = %q, want C1", task.Event.Channel)
	}
}

func TestSlackEventsSkipsNonQualifyingMessage(t *testing.T) {
	srv, queue := newTestServer(&MockStateClient{})

	// Channel chatter without a mention.
	body := `{"type":"event_callback","event":{"type":"message","user":"U1","text":"hello","channel":"C1","ts":"100.1","channel_type":"channel"}}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, signedSlackRequest(t, "/events/slack", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (skips are still acknowledged)", rec.Code)
	}
	if queue.Len() != 0 {
		t.Error("non-qualifying events must not enqueue tasks")
	}
}

func TestSlackEventsAcksAppMentionWithoutEnqueue(t *testing.T) {
	srv, queue := newTestServer(&MockStateClient{})

	body := `{"type":"event_callback","event":{"type":"app_mention","user":"U1","text":"<@U0BOT> hi","channel":"C1","ts":"100.1"}}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, signedSlackRequest(t, "/events/slack", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if queue.Len() != 0 {
		t.Error("app_mention is ack-only; the message event carries the dispatch")
	}
}

func TestSlackEventsRejectsMalformedEnvelope(t *testing.T) {
	srv, _ := newTestServer(&MockStateClient{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, signedSlackRequest(t, "/events/slack", `{not json`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCallbackEnqueuesTask(t *testing.T) {
	srv, queue := newTestServer(&MockStateClient{})

	body := `{"thread_id":"T1","values":{"messages":[{"content":"Hi **there**"}]},"metadata":{"channel":"C1","thread_ts":"100.1"}}`
	req := httptest.NewRequest(http.MethodPost, "/callbacks/T1", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "success" {
		t.Errorf("status field = %q, want success", resp["status"])
	}

	if queue.Len() != 1 {
		t.Fatalf("queue length = %d, want 1", queue.Len())
	}
	task := queue.Dequeue()
	if task.Type != models.TaskTypeCallback {
		t.Errorf("task type = %s, want %s", task.Type, models.TaskTypeCallback)
	}
	if task.Callback.ThreadID != "T1" {
		t.Errorf("callback thread_id = %s, want T1", task.Callback.ThreadID)
	}
}

func TestCallbackRejectsMalformedBody(t *testing.T) {
	srv, queue := newTestServer(&MockStateClient{})

	req := httptest.NewRequest(http.MethodPost, "/callbacks/T1", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if queue.Len() != 0 {
		t.Error("malformed callbacks must not enqueue tasks")
	}
}

func TestThreadState(t *testing.T) {
	state := &MockStateClient{
		GetThreadStateFunc: func(ctx context.Context, threadID string) (json.RawMessage, error) {
			if threadID != "T1" {
				t.Errorf("threadID = %s, want T1", threadID)
			}
			return json.RawMessage(`{"values":{"messages":[{"content":"hi"}]}}`), nil
		},
	}
	srv, _ := newTestServer(state)

	req := httptest.NewRequest(http.MethodGet, "/threads/T1/state", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "messages") {
		t.Errorf("body = %s, want thread state", rec.Body.String())
	}
}

func TestThreadStateBackendError(t *testing.T) {
	state := &MockStateClient{
		GetThreadStateFunc: func(ctx context.Context, threadID string) (json.RawMessage, error) {
			return nil, errors.New("connection refused")
		},
	}
	srv, _ := newTestServer(state)

	req := httptest.NewRequest(http.MethodGet, "/threads/T1/state", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv, queue := newTestServer(&MockStateClient{})
	queue.Enqueue(models.NewSlackMessageTask(&models.MessageEvent{}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["pending"] != 1.0 {
		t.Errorf("pending = %v, want 1", resp["pending"])
	}
}
