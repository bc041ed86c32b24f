package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/charmbracelet/log"
	appconfig "github.com/savaki/research-bot/pkg/config"
	"github.com/savaki/research-bot/pkg/dynamodb"
	"github.com/savaki/research-bot/pkg/handler"
	"github.com/savaki/research-bot/pkg/models"
	"github.com/savaki/research-bot/pkg/router"
	slackclient "github.com/savaki/research-bot/pkg/slack"
	"github.com/savaki/research-bot/pkg/stepfunctions"
	"github.com/savaki/research-bot/pkg/workflow"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// Handler is the Lambda handler for Slack events. Slack retries deliveries
// that take longer than a few seconds, so anything slow (the PDF intake) is
// handed to a Step Functions execution and the request returns immediately.
func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	cfg, err := appconfig.Load()
	if err != nil {
		return internalError("Failed to load config", err)
	}
	if err := cfg.ValidateLambda(); err != nil {
		return internalError("Invalid Lambda config", err)
	}

	if !handler.ValidateSlackRequest(
		[]byte(request.Body),
		request.Headers["X-Slack-Request-Timestamp"],
		request.Headers["X-Slack-Signature"],
		cfg.SlackSigningKey,
	) {
		log.Warn("invalid slack signature")
		return badRequest("Invalid signature"), nil
	}

	apiEvent, err := slackevents.ParseEvent(json.RawMessage(request.Body), slackevents.OptionNoVerifyToken())
	if err != nil {
		log.Warn("failed to parse slack event", "err", err)
		return badRequest("Invalid event format"), nil
	}

	if apiEvent.Type == slackevents.URLVerification {
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal([]byte(request.Body), &challenge); err != nil {
			return badRequest("Invalid challenge"), nil
		}
		return events.APIGatewayProxyResponse{
			StatusCode: 200,
			Body:       fmt.Sprintf(`{"challenge":"%s"}`, challenge.Challenge),
			Headers:    map[string]string{"Content-Type": "application/json"},
		}, nil
	}

	if apiEvent.Type != slackevents.CallbackEvent {
		log.Debug("ignoring event", "type", apiEvent.Type)
		return okResponse(map[string]bool{"ok": true}), nil
	}

	slackClient := slackclient.NewClient(cfg.SlackBotToken)

	event, ok := handler.NormalizeEvent(ctx, apiEvent, slackClient, "")
	if !ok {
		return okResponse(map[string]bool{"ok": true}), nil
	}

	workflowID, matched := router.New(router.DefaultRules(cfg)).Route(event)
	if !matched {
		return okResponse(map[string]bool{"ok": true}), nil
	}

	switch workflowID {
	case workflow.GreetingID:
		// Fast enough to answer inline
		res := workflow.NewGreeting().Handle(ctx, event)
		if res.Reply != "" {
			if _, err := slackClient.PostMessage(ctx, event.Channel, slack.MsgOptionText(res.Reply, false)); err != nil {
				log.Warn("failed to post greeting reply", "err", err)
			}
		}

	case workflow.IntakeID:
		if err := startIntake(ctx, cfg, slackClient, event); err != nil {
			log.Error("failed to start intake", "file_id", event.FileID, "err", err)
			return internalError("Failed to process file", err)
		}
	}

	return okResponse(map[string]bool{"ok": true}), nil
}

// startIntake records the submission, acknowledges in the share thread, and
// kicks off the Step Functions execution that runs the worker
func startIntake(ctx context.Context, cfg *appconfig.Config, slackClient *slackclient.Client, event models.InboundEvent) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	ddbClient := dynamodb.NewClient(awsCfg)
	subRepo := dynamodb.NewSubmissionRepository(ddbClient, cfg.SubmissionsTable)
	sfClient := stepfunctions.NewClient(awsCfg)

	sub := models.NewSubmission(event.Channel, event.User, event.FileID, event.FileName, event.ThreadTS)
	if err := subRepo.Save(ctx, sub); err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	log.Info("recorded submission", "submission_id", sub.SubmissionID, "file", sub.FileName)

	opts := []slack.MsgOption{slack.MsgOptionText(handler.AckText, false)}
	if event.ThreadTS != "" {
		opts = append(opts, slack.MsgOptionTS(event.ThreadTS))
	}
	if _, err := slackClient.PostMessage(ctx, event.Channel, opts...); err != nil {
		log.Warn("failed to post acknowledgment", "err", err)
	}

	executionArn, err := sfClient.StartIntake(ctx, cfg.StateMachineArn, sub)
	if err != nil {
		slackClient.PostMessage(ctx, event.Channel, slack.MsgOptionText("❌ Failed to start PDF processing. Please try again.", false))
		if uerr := subRepo.UpdateStatus(ctx, sub.SubmissionID, models.StatusFailed, err.Error()); uerr != nil {
			log.Warn("failed to mark submission failed", "submission_id", sub.SubmissionID, "err", uerr)
		}
		return fmt.Errorf("start execution: %w", err)
	}
	log.Info("started intake execution", "execution_arn", executionArn)

	return nil
}

// internalError returns a 500 error response
func internalError(message string, err error) (events.APIGatewayProxyResponse, error) {
	log.Error(message, "err", err)
	return events.APIGatewayProxyResponse{
		StatusCode: 500,
		Body:       fmt.Sprintf(`{"error":"%s"}`, message),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}, nil
}

// badRequest returns a 400 error response
func badRequest(message string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: 400,
		Body:       fmt.Sprintf(`{"error":"%s"}`, message),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// okResponse returns a successful response
func okResponse(body interface{}) events.APIGatewayProxyResponse {
	data, _ := json.Marshal(body)
	return events.APIGatewayProxyResponse{
		StatusCode: 200,
		Body:       string(data),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	lambda.Start(Handler)
}
