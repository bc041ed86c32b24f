package router

import (
	"github.com/savaki/research-bot/pkg/config"
	"github.com/savaki/research-bot/pkg/models"
	"github.com/savaki/research-bot/pkg/workflow"
)

// DefaultRules is the production routing table, in evaluation order:
//
//  1. greeting words in a DM
//  2. help requests in a DM
//  3. any @mention (the greeting handler picks the branch from the text)
//  4. PDF shared in the articles channel
//
// Channel messages without a mention, non-PDF uploads, reactions and block
// actions fall through and are dropped by the router.
func DefaultRules(cfg *config.Config) []Rule {
	return []Rule{
		{
			Name:     "dm-greeting",
			Workflow: workflow.GreetingID,
			When: All(
				KindIs(models.KindMessage),
				ChannelTypeIs("im"),
				TextHasAny("hello", "hi"),
			),
		},
		{
			Name:     "dm-help",
			Workflow: workflow.GreetingID,
			When: All(
				KindIs(models.KindMessage),
				ChannelTypeIs("im"),
				TextHasAny("help"),
			),
		},
		{
			Name:     "mention",
			Workflow: workflow.GreetingID,
			When: All(
				KindIs(models.KindMessage),
				IsMention(),
			),
		},
		{
			Name:     "pdf-intake",
			Workflow: workflow.IntakeID,
			When: All(
				KindIs(models.KindFileShared),
				ChannelIs(cfg.ArticlesChannel),
				Any(
					MimetypeIs("application/pdf"),
					FileNameHasSuffix(".pdf"),
				),
			),
		},
	}
}
