package handler

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/savaki/research-bot/pkg/models"
	slackclient "github.com/savaki/research-bot/pkg/slack"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// FileInfoGetter fetches the full file record for a file_shared event
type FileInfoGetter interface {
	GetFileInfo(ctx context.Context, fileID string) (*slack.File, error)
}

// NormalizeEvent converts an Events API payload into an InboundEvent. Both
// transports (Socket Mode and Events over HTTP) produce the same payloads,
// so both feed the router through here. Returns false for event types the
// bot never routes and for the bot's own messages.
func NormalizeEvent(ctx context.Context, apiEvent slackevents.EventsAPIEvent, files FileInfoGetter, botUserID string) (models.InboundEvent, bool) {
	logger := log.WithPrefix("events")

	switch ev := apiEvent.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		// File shares arrive separately as file_shared; bot echoes and
		// message edits are never routed
		if ev.BotID != "" || ev.User == botUserID || ev.SubType != "" {
			return models.InboundEvent{}, false
		}
		return models.InboundEvent{
			Kind:        models.KindMessage,
			Channel:     ev.Channel,
			User:        ev.User,
			Timestamp:   ev.TimeStamp,
			Text:        ev.Text,
			ChannelType: ev.ChannelType,
			ThreadTS:    ev.ThreadTimeStamp,
		}, true

	case *slackevents.AppMentionEvent:
		if ev.User == botUserID {
			return models.InboundEvent{}, false
		}
		return models.InboundEvent{
			Kind:        models.KindMessage,
			Channel:     ev.Channel,
			User:        ev.User,
			Timestamp:   ev.TimeStamp,
			Text:        ev.Text,
			ChannelType: "channel",
			Mention:     true,
			ThreadTS:    ev.ThreadTimeStamp,
		}, true

	case *slackevents.FileSharedEvent:
		// The event only carries ids; fetch the file record so routing
		// can see the mimetype and the reply can land in the share thread
		file, err := files.GetFileInfo(ctx, ev.FileID)
		if err != nil {
			logger.Warn("failed to fetch shared file info", "file_id", ev.FileID, "err", err)
			return models.InboundEvent{}, false
		}
		return models.InboundEvent{
			Kind:        models.KindFileShared,
			Channel:     ev.ChannelID,
			User:        ev.UserID,
			Timestamp:   ev.EventTimestamp,
			FileID:      ev.FileID,
			FileName:    file.Name,
			Mimetype:    file.Mimetype,
			DownloadURL: file.URLPrivateDownload,
			ThreadTS:    slackclient.ThreadTimestamp(file, ev.ChannelID),
		}, true

	case *slackevents.ReactionAddedEvent:
		return models.InboundEvent{
			Kind:          models.KindReactionAdded,
			Channel:       ev.Item.Channel,
			User:          ev.User,
			Timestamp:     ev.EventTimestamp,
			Reaction:      ev.Reaction,
			ItemTimestamp: ev.Item.Timestamp,
		}, true

	default:
		logger.Debug("ignoring event", "type", apiEvent.InnerEvent.Type)
		return models.InboundEvent{}, false
	}
}

// NormalizeInteraction converts a block action callback into an InboundEvent
func NormalizeInteraction(callback slack.InteractionCallback) (models.InboundEvent, bool) {
	if callback.Type != slack.InteractionTypeBlockActions || len(callback.ActionCallback.BlockActions) == 0 {
		return models.InboundEvent{}, false
	}

	action := callback.ActionCallback.BlockActions[0]
	return models.InboundEvent{
		Kind:        models.KindBlockAction,
		Channel:     callback.Channel.ID,
		User:        callback.User.ID,
		Timestamp:   callback.MessageTs,
		ActionID:    action.ActionID,
		ActionValue: action.Value,
	}, true
}
