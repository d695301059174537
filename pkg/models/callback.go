package models

import (
	"errors"
	"strings"
)

// ErrNoMessages indicates a callback payload whose state values carried no
// messages to relay.
var ErrNoMessages = errors.New("callback values contain no messages")

// StateMessage is one message-like record from a LangGraph thread state.
// Content is either a plain string or a list of typed content blocks.
type StateMessage struct {
	Content interface{} `json:"content"`
}

// Text flattens the message content to plain text. For block-list content
// only blocks of type "text" contribute, concatenated in order.
func (m *StateMessage) Text() string {
	switch content := m.Content.(type) {
	case string:
		return content
	case []interface{}:
		var sb strings.Builder
		for _, raw := range content {
			block, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			if blockType, _ := block["type"].(string); blockType != "text" {
				continue
			}
			if text, ok := block["text"].(string); ok {
				sb.WriteString(text)
			}
		}
		return sb.String()
	default:
		return ""
	}
}

// StateValues is the portion of a thread state the bridge consumes.
type StateValues struct {
	Messages []StateMessage `json:"messages"`
}

// CallbackPayload is the body LangGraph pushes to the callback webhook once
// a run completes. ThreadID is the authoritative correlation key and must
// equal the ID the bridge derived for the originating Slack conversation.
type CallbackPayload struct {
	ThreadID string                 `json:"thread_id"`
	Values   StateValues            `json:"values"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// LastMessage returns the final message record, the one carrying the run's
// answer.
func (p *CallbackPayload) LastMessage() (*StateMessage, error) {
	if len(p.Values.Messages) == 0 {
		return nil, ErrNoMessages
	}
	return &p.Values.Messages[len(p.Values.Messages)-1], nil
}

// MetadataString returns the named metadata value when it is a string.
func (p *CallbackPayload) MetadataString(key string) string {
	value, _ := p.Metadata[key].(string)
	return value
}
