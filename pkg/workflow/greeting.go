package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/savaki/research-bot/pkg/models"
)

const helpText = `Hi! I'm the research intake bot. Here's what I can do:

• Say "hello" — I'll greet you
• Say "help" — show this help message
• Upload a PDF to the articles channel — I'll summarize it and file it!`

const mentionHint = "Hi! Try DMing me for more features, or say 'help' here!"

// Greeting answers hello/help messages. No collaborator calls; the reply is
// computed from the event alone.
type Greeting struct {
	logger *log.Logger
}

// NewGreeting creates the greeting handler
func NewGreeting() *Greeting {
	return &Greeting{
		logger: log.WithPrefix("workflow.greeting"),
	}
}

// Handle picks a branch from the message text: greeting, help, or the
// mention fallback hint
func (g *Greeting) Handle(ctx context.Context, event models.InboundEvent) Result {
	text := strings.ToLower(event.Text)

	switch {
	case strings.Contains(text, "hello") || strings.Contains(text, "hi"):
		g.logger.Debug("greeting user", "user", event.User)
		return Result{Status: StatusOK, Reply: fmt.Sprintf("Hey there <@%s>!", event.User)}
	case strings.Contains(text, "help"):
		g.logger.Debug("helping user", "user", event.User)
		return Result{Status: StatusOK, Reply: helpText}
	default:
		return Result{Status: StatusOK, Reply: mentionHint}
	}
}
