package models

// MessageRole constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Run creation directives understood by the LangGraph runs API.
const (
	// MultitaskInterrupt makes a new message to an in-flight thread interrupt
	// and restart processing rather than queue behind it (last-write-wins).
	MultitaskInterrupt = "interrupt"
	// IfNotExistsCreate creates the thread on first use and reuses it after.
	IfNotExistsCreate = "create"
)

// RunMessage is a single input message for a run.
type RunMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RunInput is the input payload for a run.
type RunInput struct {
	Messages []RunMessage `json:"messages"`
}

// RunRequest is the payload sent to the LangGraph runs API when dispatching
// a Slack message. Metadata echoes the Slack coordinates so the callback can
// find its way back to the originating thread.
type RunRequest struct {
	AssistantID       string                 `json:"assistant_id"`
	Input             RunInput               `json:"input"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
	MultitaskStrategy string                 `json:"multitask_strategy,omitempty"`
	IfNotExists       string                 `json:"if_not_exists,omitempty"`
	Webhook           string                 `json:"webhook,omitempty"`
}
