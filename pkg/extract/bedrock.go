package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	// Default Bedrock model ID for Claude 3.5 Sonnet
	DefaultBedrockModelID = "anthropic.claude-3-5-sonnet-20241022-v2:0"

	maxExtractionTokens = 4096
)

// BedrockExtractor extracts document metadata with a Claude model on AWS
// Bedrock Runtime. The PDF travels inline as a base64 document block.
type BedrockExtractor struct {
	client  *bedrockruntime.Client
	modelID string
}

// NewBedrockExtractor creates a Bedrock-backed extractor
func NewBedrockExtractor(cfg aws.Config, modelID string) *BedrockExtractor {
	if modelID == "" {
		modelID = DefaultBedrockModelID
	}
	return &BedrockExtractor{
		client:  bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
	}
}

// bedrockRequest is a Claude Messages API request body
type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	Messages         []bedrockMessage `json:"messages"`
}

type bedrockMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string          `json:"type"`
	Text   string          `json:"text,omitempty"`
	Source *documentSource `json:"source,omitempty"`
}

type documentSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// bedrockResponse is the subset of the Messages API response we read
type bedrockResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// ExtractMetadata sends the document and the extraction instructions to the
// model and parses the JSON reply
func (e *BedrockExtractor) ExtractMetadata(ctx context.Context, doc Document) (Metadata, error) {
	if len(doc.Content) == 0 {
		return Metadata{}, fmt.Errorf("document is empty")
	}

	req := bedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        maxExtractionTokens,
		Messages: []bedrockMessage{
			{
				Role: "user",
				Content: []contentBlock{
					{
						Type: "document",
						Source: &documentSource{
							Type:      "base64",
							MediaType: "application/pdf",
							Data:      base64.StdEncoding.EncodeToString(doc.Content),
						},
					},
					{
						Type: "text",
						Text: extractionPrompt,
					},
				},
			},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("marshal request: %w", err)
	}

	output, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(e.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("invoke bedrock model: %w", err)
	}

	var response bedrockResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return Metadata{}, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(response.Content) == 0 {
		return Metadata{}, fmt.Errorf("empty response from Bedrock")
	}

	return parseMetadata(response.Content[0].Text)
}
