package handler

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// Notifier posts audit lines to a central logging channel. Posts are
// best-effort: a failure is logged and otherwise ignored, so audit trouble
// never fails a workflow.
type Notifier struct {
	poster  MessagePoster
	channel string
	logger  *log.Logger
}

// NewNotifier creates a notifier. An empty channel disables it.
func NewNotifier(poster MessagePoster, channel string) *Notifier {
	return &Notifier{
		poster:  poster,
		channel: channel,
		logger:  log.WithPrefix("notifier"),
	}
}

// Notify posts one line to the logging channel
func (n *Notifier) Notify(ctx context.Context, text string) {
	if n.channel == "" {
		return
	}

	if _, err := n.poster.PostMessage(ctx, n.channel, slack.MsgOptionText(text, false)); err != nil {
		n.logger.Warn("failed to post audit message", "err", err)
	}
}
