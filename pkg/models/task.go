package models

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Task types
const (
	TaskTypeSlackMessage = "slack_message"
	TaskTypeCallback     = "callback"
)

// Task is one unit of work on the dispatch queue. Exactly one of Event or
// Callback is set, according to Type. A nil *Task is the shutdown sentinel
// that stops the worker.
type Task struct {
	ID         string
	Type       string
	Event      *MessageEvent
	Callback   *CallbackPayload
	EnqueuedAt time.Time
}

// NewSlackMessageTask wraps a qualifying inbound Slack event for dispatch.
func NewSlackMessageTask(event *MessageEvent) *Task {
	return &Task{
		ID:         generateTaskID(),
		Type:       TaskTypeSlackMessage,
		Event:      event,
		EnqueuedAt: time.Now(),
	}
}

// NewCallbackTask wraps a LangGraph webhook callback for relay to Slack.
func NewCallbackTask(callback *CallbackPayload) *Task {
	return &Task{
		ID:         generateTaskID(),
		Type:       TaskTypeCallback,
		Callback:   callback,
		EnqueuedAt: time.Now(),
	}
}

// generateTaskID creates a unique identifier used to correlate log lines for
// a single task across enqueue and processing.
func generateTaskID() string {
	id, _ := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	return "task-" + id.String()
}
