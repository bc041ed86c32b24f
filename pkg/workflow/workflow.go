// Package workflow holds the bot's business logic: one handler per use
// case, each invoked with a routed inbound event and returning a result to
// post back to the originating channel.
package workflow

import (
	"context"

	"github.com/savaki/research-bot/pkg/models"
	"github.com/slack-go/slack"
)

// Workflow identifiers referenced by routing rules
const (
	GreetingID = "greeting"
	IntakeID   = "intake"
)

// Status classifies a handler outcome. Partial means the user-visible work
// succeeded but a side effect did not (summary produced, store write
// failed); replies must keep that distinction visible.
type Status int

const (
	StatusOK Status = iota
	StatusPartial
	StatusFailed
)

// Result is the outcome of one handler invocation. Collaborator failures
// are converted into a failed (or partial) Result at the handler boundary;
// they never propagate as panics or raw errors.
type Result struct {
	Status Status
	Reply  string        // user-facing text, also the notification fallback for block messages
	Blocks []slack.Block // optional Block Kit payload for rich replies
	Err    error         // underlying cause, for logging only
}

// SubmissionStatus maps the outcome onto the stored submission vocabulary:
// ok means the article was saved, partial means the extraction succeeded
// but the save did not, anything else failed outright.
func (r Result) SubmissionStatus() string {
	switch r.Status {
	case StatusOK:
		return models.StatusSaved
	case StatusPartial:
		return models.StatusExtracted
	default:
		return models.StatusFailed
	}
}

// Handler is one unit of business logic triggered by a matched event
type Handler interface {
	Handle(ctx context.Context, event models.InboundEvent) Result
}

// Registry maps workflow identifiers to their handlers
type Registry map[string]Handler
