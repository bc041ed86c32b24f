package handler

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/savaki/research-bot/pkg/models"
	"github.com/savaki/research-bot/pkg/router"
	"github.com/savaki/research-bot/pkg/workflow"
	"github.com/slack-go/slack"
)

type postedMessage struct {
	channel string
	text    string
}

type fakePoster struct {
	mu     sync.Mutex
	posts  []postedMessage
	failed bool
}

func (f *fakePoster) PostMessage(ctx context.Context, channelID string, opts ...slack.MsgOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, postedMessage{channel: channelID, text: renderText(opts)})
	return "1700000000.000100", nil
}

func (f *fakePoster) messages() []postedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]postedMessage(nil), f.posts...)
}

// renderText applies the options against the Slack request encoder to pull
// the text back out for assertions
func renderText(opts []slack.MsgOption) string {
	_, values, err := slack.UnsafeApplyMsgOptions("token", "channel", "https://slack.example.com/api/", opts...)
	if err != nil {
		return ""
	}
	return values.Get("text")
}

type stubHandler struct {
	result  workflow.Result
	release chan struct{} // when non-nil, Handle blocks until closed
	mu      sync.Mutex
	calls   int
}

func (s *stubHandler) Handle(ctx context.Context, event models.InboundEvent) workflow.Result {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.release != nil {
		<-s.release
	}
	return s.result
}

func (s *stubHandler) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testRules() []router.Rule {
	return []router.Rule{
		{
			Name:     "dm-text",
			Workflow: workflow.GreetingID,
			When:     router.All(router.KindIs(models.KindMessage), router.ChannelTypeIs("im")),
		},
		{
			Name:     "pdf",
			Workflow: workflow.IntakeID,
			When:     router.All(router.KindIs(models.KindFileShared), router.MimetypeIs("application/pdf")),
		},
	}
}

func TestDispatchPostsHandlerReply(t *testing.T) {
	poster := &fakePoster{}
	greeting := &stubHandler{result: workflow.Result{Status: workflow.StatusOK, Reply: "Hey there <@U1>!"}}

	d := NewDispatcher(router.New(testRules()), workflow.Registry{workflow.GreetingID: greeting}, poster, nil)

	event := models.InboundEvent{Kind: models.KindMessage, Channel: "D1", User: "U1", ChannelType: "im", Text: "hello"}
	id, ok := d.Dispatch(context.Background(), event)
	if !ok || id != workflow.GreetingID {
		t.Fatalf("Dispatch() = %s, %v; want %s, true", id, ok, workflow.GreetingID)
	}

	d.Wait()

	msgs := poster.messages()
	if len(msgs) != 1 {
		t.Fatalf("posted %d messages, want 1", len(msgs))
	}
	if msgs[0].channel != "D1" || msgs[0].text != "Hey there <@U1>!" {
		t.Errorf("posted %+v, want reply in D1", msgs[0])
	}
}

func TestDispatchUnmatchedEventIsDropped(t *testing.T) {
	poster := &fakePoster{}
	greeting := &stubHandler{result: workflow.Result{Status: workflow.StatusOK, Reply: "hi"}}

	d := NewDispatcher(router.New(testRules()), workflow.Registry{workflow.GreetingID: greeting}, poster, nil)

	// png upload matches no rule
	event := models.InboundEvent{Kind: models.KindFileShared, Channel: "C1", User: "U1", FileID: "F1", Mimetype: "image/png"}
	if _, ok := d.Dispatch(context.Background(), event); ok {
		t.Fatal("Dispatch() matched, want drop")
	}

	d.Wait()

	if greeting.callCount() != 0 {
		t.Error("handler invoked for unmatched event")
	}
	if len(poster.messages()) != 0 {
		t.Error("messages posted for unmatched event")
	}
}

func TestDispatchAcksBeforeSlowWork(t *testing.T) {
	poster := &fakePoster{}
	release := make(chan struct{})
	slow := &stubHandler{
		result:  workflow.Result{Status: workflow.StatusOK, Reply: "PDF analysis complete: paper.pdf"},
		release: release,
	}

	d := NewDispatcher(router.New(testRules()), workflow.Registry{workflow.IntakeID: slow}, poster, nil)

	event := models.InboundEvent{
		Kind: models.KindFileShared, Channel: "C1", User: "U1",
		FileID: "F1", FileName: "paper.pdf", Mimetype: "application/pdf",
		ThreadTS: "1699999999.000001",
	}

	done := make(chan struct{})
	go func() {
		d.Dispatch(context.Background(), event)
		close(done)
	}()

	// Dispatch must return while the handler is still blocked
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Dispatch() did not return within the acknowledgment budget")
	}

	// The acknowledgment is already posted; the result is not
	msgs := poster.messages()
	if len(msgs) != 1 {
		t.Fatalf("posted %d messages before handler finished, want 1 ack", len(msgs))
	}
	if msgs[0].text != AckText {
		t.Errorf("first message = %q, want acknowledgment", msgs[0].text)
	}

	close(release)
	d.Wait()

	msgs = poster.messages()
	if len(msgs) != 2 {
		t.Fatalf("posted %d messages after handler finished, want 2", len(msgs))
	}
	if !strings.Contains(msgs[1].text, "PDF analysis complete") {
		t.Errorf("follow-up = %q, want workflow result", msgs[1].text)
	}
}

func TestDispatchNotifiesLoggingChannel(t *testing.T) {
	poster := &fakePoster{}
	greeting := &stubHandler{result: workflow.Result{Status: workflow.StatusOK, Reply: "Hey there <@U1>!"}}
	notifier := NewNotifier(poster, "CLOGS")

	d := NewDispatcher(router.New(testRules()), workflow.Registry{workflow.GreetingID: greeting}, poster, notifier)

	event := models.InboundEvent{Kind: models.KindMessage, Channel: "D1", User: "U1", ChannelType: "im", Text: "hello"}
	d.Dispatch(context.Background(), event)
	d.Wait()

	var auditPosts int
	for _, m := range poster.messages() {
		if m.channel == "CLOGS" {
			auditPosts++
		}
	}
	if auditPosts != 1 {
		t.Errorf("audit posts = %d, want 1", auditPosts)
	}
}

func TestDispatchMissingHandler(t *testing.T) {
	poster := &fakePoster{}
	d := NewDispatcher(router.New(testRules()), workflow.Registry{}, poster, nil)

	event := models.InboundEvent{Kind: models.KindMessage, Channel: "D1", User: "U1", ChannelType: "im", Text: "hello"}
	if _, ok := d.Dispatch(context.Background(), event); ok {
		t.Error("Dispatch() should report no invocation when the registry lacks the workflow")
	}

	d.Wait()
	if len(poster.messages()) != 0 {
		t.Error("no messages should be posted without a handler")
	}
}
