package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

// Slack rejects replayed requests older than five minutes; so do we
const maxSignatureAge = 300

// ValidateSlackRequest validates the Slack request signature so only
// requests signed with our signing key reach the router.
// See: https://api.slack.com/authentication/verifying-requests-from-slack
func ValidateSlackRequest(body []byte, timestamp string, signature string, signingKey string) bool {
	logger := log.WithPrefix("validator")

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		logger.Warn("invalid request timestamp", "timestamp", timestamp)
		return false
	}

	now := time.Now().Unix()
	if now-ts > maxSignatureAge {
		logger.Warn("request timestamp too old", "timestamp", ts, "now", now)
		return false
	}

	// Signature base string: v0:<timestamp>:<body>
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, string(body))

	h := hmac.New(sha256.New, []byte(signingKey))
	h.Write([]byte(baseString))
	expectedSig := "v0=" + fmt.Sprintf("%x", h.Sum(nil))

	if !hmac.Equal([]byte(expectedSig), []byte(signature)) {
		logger.Warn("request signature mismatch")
		return false
	}

	return true
}
