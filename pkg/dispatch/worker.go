package dispatch

import (
	"context"
	"log"

	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/models"
)

// Processor executes one dequeued task to completion.
type Processor interface {
	Process(ctx context.Context, task *models.Task) error
}

// Worker is the queue's single consumer. It processes tasks strictly one at
// a time, so per-process ordering of backend calls matches enqueue order. A
// failure while processing one task is logged and swallowed; the worker
// moves on and the task is not redelivered.
type Worker struct {
	queue     *Queue
	processor Processor
	done      chan struct{}
}

// NewWorker creates a worker draining queue into processor.
func NewWorker(queue *Queue, processor Processor) *Worker {
	return &Worker{
		queue:     queue,
		processor: processor,
		done:      make(chan struct{}),
	}
}

// Run consumes tasks until the shutdown sentinel is dequeued. It is meant to
// run on its own goroutine; Done is closed when it returns.
func (w *Worker) Run(ctx context.Context) {
	log.Printf("worker: started")
	defer close(w.done)

	for {
		task := w.queue.Dequeue()
		if task == nil {
			log.Printf("worker: received sentinel, exiting")
			return
		}

		log.Printf("worker: processing %s %s", task.Type, task.ID)
		if err := w.processor.Process(ctx, task); err != nil {
			// Deliberate at-most-one-attempt policy: log with context, drop,
			// keep the queue moving.
			log.Printf("worker: %s %s failed: %v", task.Type, task.ID, err)
		}
	}
}

// Done is closed once the worker has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}
