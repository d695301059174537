package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"log"
	"strconv"
	"time"
)

// maxTimestampAge rejects replayed requests older than Slack's documented
// five-minute window.
const maxTimestampAge = 300

// ValidateSlackRequest checks the signature Slack attaches to webhook
// deliveries, proving the request came from Slack and was not replayed.
// See: https://api.slack.com/authentication/verifying-requests-from-slack
func ValidateSlackRequest(body []byte, timestamp, signature, signingSecret string) bool {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		log.Printf("request validation: bad timestamp %q", timestamp)
		return false
	}

	if time.Now().Unix()-ts > maxTimestampAge {
		log.Printf("request validation: timestamp %d outside replay window", ts)
		return false
	}

	// Signature base string: v0:<timestamp>:<body>
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, string(body))
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	expected := "v0=" + fmt.Sprintf("%x", h.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		log.Printf("request validation: signature mismatch")
		return false
	}

	return true
}
