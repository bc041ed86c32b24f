package stepfunctions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/savaki/research-bot/pkg/models"
)

// Client is a wrapper around AWS Step Functions SDK
type Client struct {
	client *sfn.Client
}

// NewClient creates a new Step Functions client
func NewClient(cfg aws.Config) *Client {
	return &Client{
		client: sfn.NewFromConfig(cfg),
	}
}

// StartIntake starts a Step Functions execution for a pending submission.
// The state machine runs the intake worker, which performs the slow
// extraction outside the Lambda acknowledgment path.
func (c *Client) StartIntake(ctx context.Context, stateMachineArn string, sub *models.Submission) (string, error) {
	input := models.IntakeInput{
		SubmissionID: sub.SubmissionID,
		ChannelID:    sub.ChannelID,
		FileID:       sub.FileID,
	}

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("marshal input: %w", err)
	}

	result, err := c.client.StartExecution(ctx, &sfn.StartExecutionInput{
		StateMachineArn: &stateMachineArn,
		Input:           aws.String(string(inputJSON)),
		Name:            aws.String(sub.SubmissionID),
	})
	if err != nil {
		return "", fmt.Errorf("start execution: %w", err)
	}

	return *result.ExecutionArn, nil
}
