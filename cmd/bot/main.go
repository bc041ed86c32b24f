package main

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/charmbracelet/log"
	appconfig "github.com/savaki/research-bot/pkg/config"
	"github.com/savaki/research-bot/pkg/dynamodb"
	"github.com/savaki/research-bot/pkg/extract"
	"github.com/savaki/research-bot/pkg/handler"
	"github.com/savaki/research-bot/pkg/router"
	slackclient "github.com/savaki/research-bot/pkg/slack"
	"github.com/savaki/research-bot/pkg/workflow"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// Socket Mode entrypoint: the persistent-connection topology. Events arrive
// over the app-level websocket, are acknowledged immediately, and slow work
// runs detached inside this process.
func main() {
	ctx := context.Background()

	cfg, err := appconfig.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	if err := cfg.ValidateSocket(); err != nil {
		log.Fatal("invalid socket mode config", "err", err)
	}
	if cfg.Environment == "dev" {
		log.SetLevel(log.DebugLevel)
	}

	slackClient := slackclient.NewClientWithAppToken(cfg.SlackBotToken, cfg.SlackAppToken)
	auth, err := slackClient.AuthTest(ctx)
	if err != nil {
		log.Fatal("slack credentials rejected", "err", err)
	}
	log.Info("authenticated with slack", "bot_user", auth.UserID, "team", auth.Team)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatal("failed to load AWS config", "err", err)
	}

	extractor, err := newExtractor(cfg, awsCfg)
	if err != nil {
		log.Fatal("failed to build extractor", "err", err)
	}

	ddbClient := dynamodb.NewClient(awsCfg)
	articleRepo := dynamodb.NewArticleRepository(ddbClient, cfg.ArticlesTable)

	registry := workflow.Registry{
		workflow.GreetingID: workflow.NewGreeting(),
		workflow.IntakeID:   workflow.NewIntake(slackClient, extractor, articleRepo),
	}

	notifier := handler.NewNotifier(slackClient, cfg.LoggingChannel)
	dispatcher := handler.NewDispatcher(router.New(router.DefaultRules(cfg)), registry, slackClient, notifier)

	notifier.Notify(ctx, "🤖 Research intake bot is starting up!")

	socket := socketmode.New(slackClient.GetRawClient())
	go func() {
		if err := socket.Run(); err != nil {
			log.Fatal("socket mode terminated", "err", err)
		}
	}()

	runLoop(ctx, socket, slackClient, dispatcher, auth.UserID)
}

// runLoop acknowledges every delivery right away and hands the normalized
// event to the dispatcher
func runLoop(ctx context.Context, socket *socketmode.Client, slackClient *slackclient.Client, dispatcher *handler.Dispatcher, botUserID string) {
	for evt := range socket.Events {
		switch evt.Type {
		case socketmode.EventTypeConnecting:
			log.Debug("connecting to slack")
		case socketmode.EventTypeConnected:
			log.Info("connected to slack")
		case socketmode.EventTypeConnectionError:
			log.Warn("socket connection error", "data", evt.Data)

		case socketmode.EventTypeEventsAPI:
			apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
			if !ok {
				continue
			}
			socket.Ack(*evt.Request)

			event, ok := handler.NormalizeEvent(ctx, apiEvent, slackClient, botUserID)
			if !ok {
				continue
			}
			dispatcher.Dispatch(ctx, event)

		case socketmode.EventTypeInteractive:
			callback, ok := evt.Data.(slack.InteractionCallback)
			if !ok {
				continue
			}
			socket.Ack(*evt.Request)

			if event, ok := handler.NormalizeInteraction(callback); ok {
				dispatcher.Dispatch(ctx, event)
			}
		}
	}
}

// newExtractor picks the LLM provider from config
func newExtractor(cfg *appconfig.Config, awsCfg aws.Config) (extract.Extractor, error) {
	switch cfg.ExtractorProvider {
	case appconfig.ProviderOpenAI:
		return extract.NewOpenAIExtractor(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		return extract.NewBedrockExtractor(awsCfg, cfg.BedrockModelID), nil
	}
}
