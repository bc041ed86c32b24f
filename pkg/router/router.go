package router

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/savaki/research-bot/pkg/models"
)

// Predicate decides whether a rule applies to an event
type Predicate func(models.InboundEvent) bool

// Rule pairs a predicate with the workflow that handles matching events.
// Rules are static; the router never mutates them after construction.
type Rule struct {
	Name     string
	Workflow string
	When     Predicate
}

// Router maps one inbound event to at most one workflow. Evaluation is a
// linear scan in declaration order and the first satisfied predicate wins,
// regardless of how many later rules would also match.
type Router struct {
	rules  []Rule
	logger *log.Logger
}

// New creates a router over an ordered rule list
func New(rules []Rule) *Router {
	return &Router{
		rules:  rules,
		logger: log.WithPrefix("router"),
	}
}

// Route returns the workflow for the first matching rule, or false when no
// rule matches. Routing is pure: no side effects beyond logging. A malformed
// event resolves to no match rather than an error.
func (r *Router) Route(event models.InboundEvent) (string, bool) {
	if err := event.Validate(); err != nil {
		r.logger.Debug("dropping malformed event", "kind", event.Kind, "err", err)
		return "", false
	}

	for _, rule := range r.rules {
		if rule.When(event) {
			r.logger.Debug("matched rule", "rule", rule.Name, "workflow", rule.Workflow)
			return rule.Workflow, true
		}
	}

	r.logger.Debug("no rule matched, dropping event", "kind", event.Kind, "channel", event.Channel)
	return "", false
}

// Predicate combinators

// All is satisfied only when every predicate is
func All(preds ...Predicate) Predicate {
	return func(e models.InboundEvent) bool {
		for _, p := range preds {
			if !p(e) {
				return false
			}
		}
		return true
	}
}

// KindIs matches on the event kind
func KindIs(kind models.EventKind) Predicate {
	return func(e models.InboundEvent) bool { return e.Kind == kind }
}

// ChannelIs matches the originating channel. An empty channel argument
// matches everything, so an unset config value means "no restriction".
func ChannelIs(channel string) Predicate {
	return func(e models.InboundEvent) bool {
		return channel == "" || e.Channel == channel
	}
}

// ChannelTypeIs matches the channel type of message events
func ChannelTypeIs(channelType string) Predicate {
	return func(e models.InboundEvent) bool { return e.ChannelType == channelType }
}

// IsMention matches messages that @mentioned the bot
func IsMention() Predicate {
	return func(e models.InboundEvent) bool { return e.Mention }
}

// TextHasAny matches when the lowercased text contains any of the words
func TextHasAny(words ...string) Predicate {
	return func(e models.InboundEvent) bool {
		text := strings.ToLower(e.Text)
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
}

// MimetypeIs matches the shared file's mime type
func MimetypeIs(mimetype string) Predicate {
	return func(e models.InboundEvent) bool { return e.Mimetype == mimetype }
}

// FileNameHasSuffix matches the shared file's name, case-insensitively
func FileNameHasSuffix(suffix string) Predicate {
	return func(e models.InboundEvent) bool {
		return strings.HasSuffix(strings.ToLower(e.FileName), suffix)
	}
}

// Any is satisfied when at least one predicate is
func Any(preds ...Predicate) Predicate {
	return func(e models.InboundEvent) bool {
		for _, p := range preds {
			if p(e) {
				return true
			}
		}
		return false
	}
}
