package handler

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/slack-go/slack"
)

type failingPoster struct {
	mu    sync.Mutex
	calls int
}

func (f *failingPoster) PostMessage(ctx context.Context, channelID string, opts ...slack.MsgOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return "", fmt.Errorf("channel_not_found")
}

func TestNotifierPostsToLoggingChannel(t *testing.T) {
	poster := &fakePoster{}
	n := NewNotifier(poster, "CLOGS")

	n.Notify(context.Background(), "greeting workflow replied to <@U1>")

	msgs := poster.messages()
	if len(msgs) != 1 {
		t.Fatalf("posted %d messages, want 1", len(msgs))
	}
	if msgs[0].channel != "CLOGS" {
		t.Errorf("channel = %s, want CLOGS", msgs[0].channel)
	}
}

func TestNotifierDisabledWithoutChannel(t *testing.T) {
	poster := &fakePoster{}
	n := NewNotifier(poster, "")

	n.Notify(context.Background(), "should not be posted")

	if len(poster.messages()) != 0 {
		t.Error("notifier posted despite empty channel")
	}
}

func TestNotifierSwallowsPostFailure(t *testing.T) {
	poster := &failingPoster{}
	n := NewNotifier(poster, "CLOGS")

	// Must not panic or propagate the error
	n.Notify(context.Background(), "audit line")

	if poster.calls != 1 {
		t.Errorf("post attempts = %d, want 1", poster.calls)
	}
}
