package models

import "fmt"

// EventKind discriminates the inbound event union
type EventKind string

const (
	KindMessage       EventKind = "message"
	KindFileShared    EventKind = "file_shared"
	KindReactionAdded EventKind = "reaction_added"
	KindBlockAction   EventKind = "block_action"
)

// InboundEvent is one notification delivered by Slack, normalized across the
// Socket Mode and Events-over-HTTP transports. Only the fields for the
// event's kind are populated; the rest stay zero. Events are never mutated
// after construction.
type InboundEvent struct {
	Kind      EventKind
	Channel   string
	User      string
	Timestamp string

	// message
	Text        string
	ChannelType string // "im" for DMs, "channel" otherwise
	Mention     bool   // true when the bot was @mentioned
	ThreadTS    string

	// file_shared
	FileID      string
	FileName    string
	Mimetype    string
	DownloadURL string

	// reaction_added
	Reaction      string
	ItemTimestamp string

	// block_action
	ActionID    string
	ActionValue string
}

// Validate reports a missing required field for the event's kind. Routing
// treats a failed validation as "no match"; it never propagates further.
func (e InboundEvent) Validate() error {
	if e.Channel == "" {
		return fmt.Errorf("event missing channel")
	}

	switch e.Kind {
	case KindMessage:
		if e.User == "" {
			return fmt.Errorf("message event missing user")
		}
	case KindFileShared:
		if e.FileID == "" {
			return fmt.Errorf("file_shared event missing file id")
		}
	case KindReactionAdded:
		if e.Reaction == "" {
			return fmt.Errorf("reaction_added event missing reaction")
		}
	case KindBlockAction:
		if e.ActionID == "" {
			return fmt.Errorf("block_action event missing action id")
		}
	default:
		return fmt.Errorf("unknown event kind: %s", e.Kind)
	}

	return nil
}
