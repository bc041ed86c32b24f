package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	osdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

// DefaultOpenAIModel is used when no model is configured
const DefaultOpenAIModel = "gpt-4o"

// OpenAIExtractor extracts document metadata through the OpenAI Responses
// API. The PDF is uploaded to the Files API first, referenced by id in the
// request, and deleted again afterwards.
type OpenAIExtractor struct {
	client osdk.Client
	model  string
	logger *log.Logger
}

// NewOpenAIExtractor creates an OpenAI-backed extractor
func NewOpenAIExtractor(apiKey, model string) (*OpenAIExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIExtractor{
		client: osdk.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		logger: log.WithPrefix("extract.openai"),
	}, nil
}

// ExtractMetadata uploads the document, asks the model for the metadata
// JSON, and parses the reply
func (e *OpenAIExtractor) ExtractMetadata(ctx context.Context, doc Document) (Metadata, error) {
	if len(doc.Content) == 0 {
		return Metadata{}, fmt.Errorf("document is empty")
	}

	upload, err := e.client.Files.New(ctx, osdk.FileNewParams{
		File:    osdk.File(bytes.NewReader(doc.Content), doc.Name, "application/pdf"),
		Purpose: osdk.FilePurposeUserData,
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("upload document: %w", err)
	}
	defer func() {
		// Uploaded files are only needed for the one request
		if _, err := e.client.Files.Delete(ctx, upload.ID); err != nil {
			e.logger.Warn("failed to delete uploaded file", "file_id", upload.ID, "err", err)
		}
	}()

	resp, err := e.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: e.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemUnionParam{
					OfMessage: &responses.EasyInputMessageParam{
						Role: responses.EasyInputMessageRoleUser,
						Content: responses.EasyInputMessageContentUnionParam{
							OfInputItemContentList: responses.ResponseInputMessageContentListParam{
								responses.ResponseInputContentUnionParam{
									OfInputFile: &responses.ResponseInputFileParam{FileID: osdk.String(upload.ID)},
								},
								responses.ResponseInputContentUnionParam{
									OfInputText: &responses.ResponseInputTextParam{Text: extractionPrompt},
								},
							},
						},
					},
				},
			},
		},
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("create response: %w", err)
	}

	text := resp.OutputText()
	if text == "" {
		return Metadata{}, fmt.Errorf("empty response from OpenAI")
	}

	return parseMetadata(text)
}
