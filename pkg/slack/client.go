// Package slack wraps the Slack SDK operations the bridge uses: posting the
// relayed response into the originating thread and resolving the bot's own
// user ID at startup.
package slack

import (
	"context"
	"fmt"

	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/models"
	"github.com/slack-go/slack"
)

// metadataEventType tags relayed messages so downstream tooling can trace a
// post back to the LangGraph webhook that produced it.
const metadataEventType = "webhook"

// Client wraps the Slack SDK client. Safe for concurrent use.
type Client struct {
	client *slack.Client
}

// NewClient creates a new Slack client with the bot token.
func NewClient(botToken string) *Client {
	return &Client{
		client: slack.New(botToken),
	}
}

// PostMessage posts a message, threaded when msg.ThreadTS is set. When
// msg.ThreadID is set the message carries metadata identifying the
// originating LangGraph thread. Returns the posted message's timestamp.
func (c *Client) PostMessage(ctx context.Context, msg *models.OutboundMessage) (string, error) {
	opts := []slack.MsgOption{
		slack.MsgOptionText(msg.Text, false),
	}
	if msg.ThreadTS != "" {
		opts = append(opts, slack.MsgOptionTS(msg.ThreadTS))
	}
	if msg.ThreadID != "" {
		opts = append(opts, slack.MsgOptionMetadata(slack.SlackMetadata{
			EventType:    metadataEventType,
			EventPayload: map[string]interface{}{"thread_id": msg.ThreadID},
		}))
	}

	_, timestamp, err := c.client.PostMessageContext(ctx, msg.Channel, opts...)
	if err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}

	return timestamp, nil
}

// GetBotUserID resolves the bot's own user ID via auth.test. Used at startup
// when SLACK_BOT_USER_ID is not configured; the classifier needs it to
// suppress feedback loops.
func (c *Client) GetBotUserID(ctx context.Context) (string, error) {
	resp, err := c.client.AuthTestContext(ctx)
	if err != nil {
		return "", fmt.Errorf("auth test: %w", err)
	}

	return resp.UserID, nil
}
