package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/charmbracelet/log"
	"github.com/savaki/research-bot/pkg/models"
)

// SubmissionRepository handles DynamoDB operations for intake submissions
type SubmissionRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *log.Logger
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(client *dynamodb.Client, tableName string) *SubmissionRepository {
	return &SubmissionRepository{
		client:    client,
		tableName: tableName,
		logger:    log.WithPrefix("dynamodb.submissions"),
	}
}

// Save stores a submission record
func (r *SubmissionRepository) Save(ctx context.Context, sub *models.Submission) error {
	item, err := attributevalue.MarshalMap(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}

	r.logger.Debug("saved submission", "submission_id", sub.SubmissionID)
	return nil
}

// GetByID retrieves a submission by ID
func (r *SubmissionRepository) GetByID(ctx context.Context, submissionID string) (*models.Submission, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.tableName,
		Key: map[string]types.AttributeValue{
			"submission_id": &types.AttributeValueMemberS{Value: submissionID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("submission not found: %s", submissionID)
	}

	var sub models.Submission
	if err := attributevalue.UnmarshalMap(result.Item, &sub); err != nil {
		return nil, fmt.Errorf("unmarshal submission: %w", err)
	}

	return &sub, nil
}

// UpdateStatus updates the submission status, recording the error message
// and the completion time for terminal states
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, submissionID, status, errMsg string) error {
	updateExpr := "SET #status = :status"
	exprAttrNames := map[string]string{
		"#status": "status",
	}
	exprAttrVals := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: status},
	}

	if status == models.StatusSaved || status == models.StatusFailed {
		updateExpr += ", completed_at = :now"
		exprAttrVals[":now"] = &types.AttributeValueMemberS{
			Value: time.Now().Format(time.RFC3339),
		}
	}

	if errMsg != "" {
		updateExpr += ", #error = :error"
		exprAttrNames["#error"] = "error"
		exprAttrVals[":error"] = &types.AttributeValueMemberS{Value: errMsg}
	}

	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &r.tableName,
		Key: map[string]types.AttributeValue{
			"submission_id": &types.AttributeValueMemberS{Value: submissionID},
		},
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeNames:  exprAttrNames,
		ExpressionAttributeValues: exprAttrVals,
	})
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	r.logger.Debug("updated submission status", "submission_id", submissionID, "status", status)
	return nil
}
