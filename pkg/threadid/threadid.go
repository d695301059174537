// Package threadid derives stable LangGraph thread identifiers from Slack
// conversation coordinates.
//
// The same (anchor, channel) pair must always map to the same thread ID,
// across processes and restarts: the ID is the correlation key that binds a
// Slack thread to its LangGraph thread without any shared state. IDs are
// UUIDv5 values, so run creation stays idempotent on the backend side.
package threadid

import (
	"fmt"

	"github.com/google/uuid"
)

// sourceTag namespaces Slack-derived IDs away from identity hashes minted by
// unrelated integrations sharing the same UUID namespace.
const sourceTag = "SLACK"

// ThreadID returns the deterministic LangGraph thread ID for a Slack
// conversation. The anchor is the thread root timestamp (thread_ts) when the
// message is threaded, otherwise the message's own ts.
func ThreadID(anchor, channel string) string {
	name := fmt.Sprintf("%s:%s-%s", sourceTag, anchor, channel)
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(name)).String()
}
