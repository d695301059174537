// Package dispatch implements the asynchronous dispatch pipeline: an
// unbounded in-process FIFO queue fed by the HTTP boundary and drained by a
// single worker. Enqueueing never blocks, so webhook acknowledgment to Slack
// never waits on a LangGraph round-trip.
package dispatch

import (
	"sync"

	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/models"
)

// Queue is an unbounded, insertion-ordered queue of dispatch tasks with a
// single logical consumer. A nil task acts as the shutdown sentinel: once
// dequeued, the worker drains no further items.
type Queue struct {
	mu    sync.Mutex
	cond  *sync.Cond
	tasks []*models.Task
}

// NewQueue creates an empty dispatch queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends a task. It never blocks; producers on the HTTP boundary
// may call it concurrently at any time.
func (q *Queue) Enqueue(task *models.Task) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
	q.cond.Signal()
}

// Dequeue removes and returns the oldest task, blocking until one is
// available. A nil return is the shutdown sentinel.
func (q *Queue) Dequeue() *models.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.tasks) == 0 {
		q.cond.Wait()
	}
	task := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return task
}

// Len returns the number of tasks currently waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Shutdown enqueues the sentinel that stops the worker after the current
// task, if any, completes.
func (q *Queue) Shutdown() {
	q.Enqueue(nil)
}
