package main

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/charmbracelet/log"
	appconfig "github.com/savaki/research-bot/pkg/config"
	"github.com/savaki/research-bot/pkg/dynamodb"
	"github.com/savaki/research-bot/pkg/extract"
	"github.com/savaki/research-bot/pkg/handler"
	"github.com/savaki/research-bot/pkg/models"
	slackclient "github.com/savaki/research-bot/pkg/slack"
	"github.com/savaki/research-bot/pkg/workflow"
	"github.com/slack-go/slack"
)

// Worker entrypoint: runs one PDF intake to completion. Step Functions
// launches it with SUBMISSION_ID set, it posts its result into the share
// thread, records the final submission status, and exits.
func main() {
	ctx := context.Background()

	submissionID := os.Getenv("SUBMISSION_ID")
	if submissionID == "" {
		log.Fatal("SUBMISSION_ID environment variable not set")
	}
	log.Info("starting intake worker", "submission_id", submissionID)

	cfg, err := appconfig.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatal("failed to load AWS config", "err", err)
	}

	slackClient := slackclient.NewClient(cfg.SlackBotToken)
	ddbClient := dynamodb.NewClient(awsCfg)
	subRepo := dynamodb.NewSubmissionRepository(ddbClient, cfg.SubmissionsTable)
	articleRepo := dynamodb.NewArticleRepository(ddbClient, cfg.ArticlesTable)

	extractor, err := newExtractor(cfg, awsCfg)
	if err != nil {
		log.Fatal("failed to build extractor", "err", err)
	}

	sub, err := subRepo.GetByID(ctx, submissionID)
	if err != nil {
		log.Fatal("failed to load submission", "submission_id", submissionID, "err", err)
	}
	log.Info("loaded submission", "file", sub.FileName, "channel", sub.ChannelID, "user", sub.UserID)

	// Rebuild the file event the submission was created from. The worker
	// refetches file metadata itself so the download URL is fresh.
	file, err := slackClient.GetFileInfo(ctx, sub.FileID)
	if err != nil {
		failSubmission(ctx, subRepo, slackClient, sub, "could not look up the uploaded file", err)
		return
	}

	event := models.InboundEvent{
		Kind:        models.KindFileShared,
		Channel:     sub.ChannelID,
		User:        sub.UserID,
		FileID:      sub.FileID,
		FileName:    file.Name,
		Mimetype:    file.Mimetype,
		DownloadURL: file.URLPrivateDownload,
		ThreadTS:    sub.ThreadTS,
	}

	intake := workflow.NewIntake(slackClient, extractor, articleRepo)
	res := intake.Handle(ctx, event)

	postResult(ctx, slackClient, event, res)
	recordResult(ctx, subRepo, sub, res)

	notifier := handler.NewNotifier(slackClient, cfg.LoggingChannel)
	switch res.Status {
	case workflow.StatusFailed:
		notifier.Notify(ctx, "intake workflow did not complete for <@"+sub.UserID+">: "+sub.FileName)
	default:
		notifier.Notify(ctx, "intake workflow summarized "+sub.FileName+" for <@"+sub.UserID+">")
	}

	log.Info("intake worker finished", "submission_id", sub.SubmissionID, "status", sub.Status)
}

// postResult delivers the workflow outcome into the share thread
func postResult(ctx context.Context, slackClient *slackclient.Client, event models.InboundEvent, res workflow.Result) {
	if res.Reply == "" && len(res.Blocks) == 0 {
		return
	}

	opts := []slack.MsgOption{slack.MsgOptionText(res.Reply, false)}
	if len(res.Blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(res.Blocks...))
	}
	if event.ThreadTS != "" {
		opts = append(opts, slack.MsgOptionTS(event.ThreadTS))
	}

	if _, err := slackClient.PostMessage(ctx, event.Channel, opts...); err != nil {
		log.Error("failed to post intake result", "channel", event.Channel, "err", err)
	}
}

// recordResult maps the workflow outcome onto the stored submission. A
// partial result (summary delivered, article row not written) is recorded
// as extracted with the store error, distinct from a total failure.
func recordResult(ctx context.Context, subRepo *dynamodb.SubmissionRepository, sub *models.Submission, res workflow.Result) {
	status := res.SubmissionStatus()
	errMsg := ""
	if res.Err != nil {
		errMsg = res.Err.Error()
	}

	if err := subRepo.UpdateStatus(ctx, sub.SubmissionID, status, errMsg); err != nil {
		log.Warn("failed to update submission status", "submission_id", sub.SubmissionID, "err", err)
	}
	sub.UpdateStatus(status)
	sub.Error = errMsg
}

// failSubmission reports a worker-level failure to the user and the store
func failSubmission(ctx context.Context, subRepo *dynamodb.SubmissionRepository, slackClient *slackclient.Client, sub *models.Submission, reason string, err error) {
	log.Error("intake worker failed", "submission_id", sub.SubmissionID, "reason", reason, "err", err)

	msg := "❌ PDF processing error\n\n" + reason + ". Please try again or contact support."
	opts := []slack.MsgOption{slack.MsgOptionText(msg, false)}
	if sub.ThreadTS != "" {
		opts = append(opts, slack.MsgOptionTS(sub.ThreadTS))
	}
	if _, perr := slackClient.PostMessage(ctx, sub.ChannelID, opts...); perr != nil {
		log.Warn("failed to post failure message", "err", perr)
	}

	if uerr := subRepo.UpdateStatus(ctx, sub.SubmissionID, models.StatusFailed, err.Error()); uerr != nil {
		log.Warn("failed to update submission status", "submission_id", sub.SubmissionID, "err", uerr)
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
