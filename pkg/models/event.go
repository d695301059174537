package models

// MessageEvent is a single inbound Slack message or mention notification.
// Immutable once parsed from the event envelope.
type MessageEvent struct {
	Type        string `json:"type"`
	User        string `json:"user,omitempty"`
	BotID       string `json:"bot_id,omitempty"`
	Text        string `json:"text"`
	TS          string `json:"ts"`
	ThreadTS    string `json:"thread_ts,omitempty"`
	Channel     string `json:"channel"`
	ChannelType string `json:"channel_type,omitempty"`
	EventTS     string `json:"event_ts,omitempty"`
}

// Anchor returns the conversation anchor: the thread root timestamp when the
// message is part of a thread, otherwise the message's own timestamp.
func (e *MessageEvent) Anchor() string {
	if e.ThreadTS != "" {
		return e.ThreadTS
	}
	return e.TS
}

// IsDirectMessage reports whether the event originated in a DM with the bot.
func (e *MessageEvent) IsDirectMessage() bool {
	return e.ChannelType == "im"
}

// EventCallback is the outer Slack event envelope delivered to the events
// webhook.
type EventCallback struct {
	Type      string       `json:"type"`
	Challenge string       `json:"challenge,omitempty"`
	Event     MessageEvent `json:"event"`
}

// Slack envelope types
const (
	EnvelopeURLVerification = "url_verification"
	EnvelopeEventCallback   = "event_callback"
)

// OutboundMessage is a message to be posted back into a Slack thread.
type OutboundMessage struct {
	Channel  string
	ThreadTS string
	Text     string
	ThreadID string // originating LangGraph thread, attached as message metadata
}
