package handler

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/savaki/research-bot/pkg/models"
	"github.com/savaki/research-bot/pkg/router"
	"github.com/savaki/research-bot/pkg/workflow"
	"github.com/slack-go/slack"
)

// AckText is posted immediately when a slow workflow starts, so the user
// sees a response well inside Slack's acknowledgment window even when the
// extraction takes minutes. Both topologies post the same wording.
const AckText = "🔍 On it! Summarizing your PDF — results will follow in this thread."

// MessagePoster posts messages back to Slack
type MessagePoster interface {
	PostMessage(ctx context.Context, channelID string, opts ...slack.MsgOption) (string, error)
}

// Dispatcher connects the router to the workflow handlers. Routing and the
// acknowledgment happen on the caller's goroutine; the matched workflow
// itself runs detached so Dispatch returns within the platform's response
// budget. If the process dies mid-flight the work is lost (at-most-once).
type Dispatcher struct {
	router   *router.Router
	handlers workflow.Registry
	poster   MessagePoster
	notifier *Notifier
	logger   *log.Logger

	wg sync.WaitGroup
}

// NewDispatcher wires the router, handler registry, and reply poster
func NewDispatcher(r *router.Router, handlers workflow.Registry, poster MessagePoster, notifier *Notifier) *Dispatcher {
	return &Dispatcher{
		router:   r,
		handlers: handlers,
		poster:   poster,
		notifier: notifier,
		logger:   log.WithPrefix("dispatcher"),
	}
}

// Dispatch routes one event and starts its workflow. Returns the workflow
// id and whether a handler was invoked. Unmatched events are dropped with a
// log line and nothing else: no retry, no dead letter.
func (d *Dispatcher) Dispatch(ctx context.Context, event models.InboundEvent) (string, bool) {
	workflowID, ok := d.router.Route(event)
	if !ok {
		return "", false
	}

	h, ok := d.handlers[workflowID]
	if !ok {
		d.logger.Error("no handler registered for workflow", "workflow", workflowID)
		return workflowID, false
	}

	if workflowID == workflow.IntakeID {
		// Acknowledge before the slow work starts
		if _, err := d.poster.PostMessage(ctx, event.Channel, d.replyOptions(event, AckText, nil)...); err != nil {
			d.logger.Warn("failed to post acknowledgment", "err", err)
		}
	}

	// Detach from the delivery context so socket reconnects don't cancel
	// in-flight work
	detached := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(detached, workflowID, h, event)
	}()

	return workflowID, true
}

// Wait blocks until all in-flight workflows have finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context, workflowID string, h workflow.Handler, event models.InboundEvent) {
	result := h.Handle(ctx, event)
	if result.Err != nil {
		d.logger.Error("workflow finished with error", "workflow", workflowID, "status", result.Status, "err", result.Err)
	}

	if result.Reply != "" {
		opts := d.replyOptions(event, result.Reply, result.Blocks)
		if _, err := d.poster.PostMessage(ctx, event.Channel, opts...); err != nil {
			d.logger.Error("failed to post workflow result", "workflow", workflowID, "err", err)
		}
	}

	d.notify(ctx, workflowID, event, result)
}

// replyOptions threads the reply under the originating message when the
// event carries a thread timestamp
func (d *Dispatcher) replyOptions(event models.InboundEvent, text string, blocks []slack.Block) []slack.MsgOption {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if len(blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(blocks...))
	}
	if event.ThreadTS != "" {
		opts = append(opts, slack.MsgOptionTS(event.ThreadTS))
	}
	return opts
}

func (d *Dispatcher) notify(ctx context.Context, workflowID string, event models.InboundEvent, result workflow.Result) {
	if d.notifier == nil {
		return
	}

	var text string
	switch {
	case workflowID == workflow.GreetingID:
		text = fmt.Sprintf("greeting workflow replied to <@%s>", event.User)
	case workflowID == workflow.IntakeID && result.Status == workflow.StatusOK:
		text = fmt.Sprintf("intake workflow summarized %s for <@%s>", event.FileName, event.User)
	case workflowID == workflow.IntakeID:
		text = fmt.Sprintf("intake workflow did not complete for <@%s>: %s", event.User, result.Reply)
	default:
		return
	}

	d.notifier.Notify(ctx, text)
}
