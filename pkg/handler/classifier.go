package handler

import (
	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/markdown"
	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/models"
)

// ShouldDispatch decides whether an inbound Slack message qualifies for
// dispatch to LangGraph. It rejects events with no author, events originated
// by the bot itself (feedback-loop suppression), and channel messages that
// do not mention the bot. Direct messages always qualify. Must run before
// enqueueing so self-triggering loops never reach the backend.
func ShouldDispatch(event *models.MessageEvent, botUserID string) bool {
	if event.User == "" {
		return false
	}
	if event.BotID != "" && event.BotID == botUserID {
		return false
	}
	return markdown.HasMention(event.Text, botUserID) || event.IsDirectMessage()
}
