package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/charmbracelet/log"
	"github.com/savaki/research-bot/pkg/models"
)

// ArticleRepository handles DynamoDB operations for the articles table,
// the tabular store the extracted metadata lands in. Each write is an
// independent record; no transactional guarantees.
type ArticleRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *log.Logger
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(client *dynamodb.Client, tableName string) *ArticleRepository {
	return &ArticleRepository{
		client:    client,
		tableName: tableName,
		logger:    log.WithPrefix("dynamodb.articles"),
	}
}

// Create stores one article record
func (r *ArticleRepository) Create(ctx context.Context, article *models.Article) error {
	item, err := attributevalue.MarshalMap(article)
	if err != nil {
		return fmt.Errorf("marshal article: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}

	r.logger.Info("created article record", "record_id", article.RecordID, "title", article.Title)
	return nil
}
