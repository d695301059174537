// Package markdown converts between the markup dialects on the two sides of
// the bridge: it strips bot mentions from inbound Slack text and rewrites
// LangGraph's Markdown responses into Slack mrkdwn.
package markdown

import (
	"regexp"
	"strings"
)

// mentionPlaceholder stands in for the bot mention so the assistant receives
// mention-free input.
const mentionPlaceholder = "assistant"

// MentionToken returns the Slack mention syntax for a user ID, e.g. "<@U123>".
func MentionToken(userID string) string {
	return "<@" + userID + ">"
}

// HasMention reports whether text contains an explicit mention of the user.
func HasMention(text, userID string) bool {
	return strings.Contains(text, MentionToken(userID))
}

// StripMention replaces every mention of the bot with a fixed placeholder.
// Idempotent once no mention token remains.
func StripMention(text, botUserID string) string {
	return strings.ReplaceAll(text, MentionToken(botUserID), mentionPlaceholder)
}

// boldMark temporarily replaces ** pairs so the italic rule cannot re-match
// the rewritten bold delimiters. Restored to single stars at the end.
const boldMark = "\x00"

type rewriteRule struct {
	pattern *regexp.Regexp
	replace string
}

// slackRewriteRules are applied strictly in order. The italic rule assumes
// the bold rule already rewrote ** pairs, and the bullet rule runs last so
// list markers are untouched by the emphasis rules.
var slackRewriteRules = []rewriteRule{
	// Slack renders no syntax highlighting; drop fence language tags.
	{regexp.MustCompile("(?m)^```[^\n]*\n"), "```\n"},
	// [label](url) → <url|label>
	{regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`), "<$2|$1>"},
	// **bold** → *bold* (via placeholder)
	{regexp.MustCompile(`\*\*([^*]+)\*\*`), boldMark + "$1" + boldMark},
	// *italic* → _italic_
	{regexp.MustCompile(`\*([^*]+)\*`), "_${1}_"},
	// leading -/* list markers → bullet glyph
	{regexp.MustCompile(`(?m)^\s*[-*]\s`), "• "},
}

// ToSlackMarkup rewrites Markdown into Slack mrkdwn by applying the ordered
// rewrite rules.
func ToSlackMarkup(text string) string {
	for _, rule := range slackRewriteRules {
		text = rule.pattern.ReplaceAllString(text, rule.replace)
	}
	return strings.ReplaceAll(text, boldMark, "*")
}
