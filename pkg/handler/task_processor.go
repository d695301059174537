package handler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/langgraph"
	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/markdown"
	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/models"
	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/threadid"
)

// ErrNoChannel indicates a callback whose metadata carried no channel and no
// fallback channel is configured; the relay has no destination.
var ErrNoChannel = errors.New("channel not found in callback metadata and no default channel configured")

// LangGraphClient is the subset of the LangGraph API the processor needs.
type LangGraphClient interface {
	CreateRun(ctx context.Context, threadID string, req *models.RunRequest) (*langgraph.Run, error)
}

// SlackClient posts relayed responses back into Slack.
type SlackClient interface {
	PostMessage(ctx context.Context, msg *models.OutboundMessage) (string, error)
}

// Options carries the configuration the processor derives requests from.
type Options struct {
	AssistantID    string
	BotUserID      string
	DeploymentURL  string // base URL for callback webhooks; empty disables them
	DefaultChannel string // fallback destination when callback metadata has none
}

// TaskProcessor executes dequeued tasks: slack_message tasks become LangGraph
// runs, callback tasks become Slack posts. All state lives in the remote
// backend; the processor itself only logs.
type TaskProcessor struct {
	langgraph LangGraphClient
	slack     SlackClient
	opts      Options
}

// NewTaskProcessor creates a processor using the given clients.
func NewTaskProcessor(lg LangGraphClient, sl SlackClient, opts Options) *TaskProcessor {
	return &TaskProcessor{
		langgraph: lg,
		slack:     sl,
		opts:      opts,
	}
}

// Process handles a single task to completion. Errors are reported to the
// worker, which logs and drops the task.
func (p *TaskProcessor) Process(ctx context.Context, task *models.Task) error {
	switch task.Type {
	case models.TaskTypeSlackMessage:
		return p.dispatchRun(ctx, task)
	case models.TaskTypeCallback:
		return p.relayCallback(ctx, task)
	default:
		return fmt.Errorf("unknown task type: %s", task.Type)
	}
}

// dispatchRun submits a qualifying Slack message as a new LangGraph run. The
// thread ID is derived deterministically from the conversation coordinates,
// so a follow-up in the same Slack thread lands on the same LangGraph thread.
func (p *TaskProcessor) dispatchRun(ctx context.Context, task *models.Task) error {
	event := task.Event
	if event == nil {
		return fmt.Errorf("task %s has no event", task.ID)
	}

	threadID := threadid.ThreadID(event.Anchor(), event.Channel)

	var webhook string
	if p.opts.DeploymentURL != "" {
		webhook = fmt.Sprintf("%s/callbacks/%s", p.opts.DeploymentURL, threadID)
	}

	req := &models.RunRequest{
		AssistantID: p.opts.AssistantID,
		Input: models.RunInput{Messages: []models.RunMessage{{
			Role:    models.RoleUser,
			Content: markdown.StripMention(event.Text, p.opts.BotUserID),
		}}},
		Metadata: map[string]interface{}{
			"event":            "slack",
			"slack_event_type": "message",
			"bot_user_id":      p.opts.BotUserID,
			"channel":          event.Channel,
			"thread_ts":        event.ThreadTS,
			"event_ts":         event.TS,
			"channel_type":     event.ChannelType,
		},
		MultitaskStrategy: models.MultitaskInterrupt,
		IfNotExists:       models.IfNotExistsCreate,
		Webhook:           webhook,
	}

	log.Printf("[%s].[%s] dispatching run (webhook %s)", event.Channel, threadID, webhook)
	run, err := p.langgraph.CreateRun(ctx, threadID, req)
	if err != nil {
		return fmt.Errorf("create run for thread %s: %w", threadID, err)
	}

	log.Printf("[%s].[%s] run %s created (%s)", event.Channel, threadID, run.RunID, run.Status)
	return nil
}

// relayCallback posts a completed run's answer back into the originating
// Slack thread. The destination comes from the metadata echoed through the
// run request; outbound posts are never fed back into the inbound pipeline.
func (p *TaskProcessor) relayCallback(ctx context.Context, task *models.Task) error {
	callback := task.Callback
	if callback == nil {
		return fmt.Errorf("task %s has no callback payload", task.ID)
	}

	last, err := callback.LastMessage()
	if err != nil {
		return fmt.Errorf("callback for thread %s: %w", callback.ThreadID, err)
	}

	channel := callback.MetadataString("channel")
	if channel == "" {
		channel = p.opts.DefaultChannel
	}
	if channel == "" {
		return fmt.Errorf("callback for thread %s: %w", callback.ThreadID, ErrNoChannel)
	}

	threadTS := callback.MetadataString("thread_ts")
	if threadTS == "" {
		threadTS = callback.MetadataString("event_ts")
	}

	msg := &models.OutboundMessage{
		Channel:  channel,
		ThreadTS: threadTS,
		Text:     markdown.ToSlackMarkup(last.Text()),
		ThreadID: callback.ThreadID,
	}

	if _, err := p.slack.PostMessage(ctx, msg); err != nil {
		return fmt.Errorf("relay callback for thread %s: %w", callback.ThreadID, err)
	}

	log.Printf("[%s].[%s] relayed response for thread %s", channel, threadTS, callback.ThreadID)
	return nil
}
