package slack

import (
	"bytes"
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// Client wraps the Slack SDK client for use throughout the application
type Client struct {
	client *slack.Client
}

// NewClient creates a new Slack client with bot token
func NewClient(botToken string) *Client {
	return &Client{
		client: slack.New(botToken),
	}
}

// NewClientWithAppToken creates a new Slack client with bot token and app token for Socket Mode
func NewClientWithAppToken(botToken, appToken string) *Client {
	return &Client{
		client: slack.New(botToken, slack.OptionAppLevelToken(appToken)),
	}
}

// GetRawClient returns the underlying slack.Client for Socket Mode wiring
func (c *Client) GetRawClient() *slack.Client {
	return c.client
}

// PostMessage posts a message to a Slack channel. Thread the message with
// slack.MsgOptionTS, attach blocks with slack.MsgOptionBlocks.
func (c *Client) PostMessage(ctx context.Context, channelID string, opts ...slack.MsgOption) (string, error) {
	_, timestamp, err := c.client.PostMessageContext(ctx, channelID, opts...)
	if err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}

	return timestamp, nil
}

// GetFileInfo fetches the full file record for a file_shared event, which
// only carries the file id
func (c *Client) GetFileInfo(ctx context.Context, fileID string) (*slack.File, error) {
	file, _, _, err := c.client.GetFileInfoContext(ctx, fileID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("get file info: %w", err)
	}

	return file, nil
}

// DownloadFile fetches a file's bytes from its private download URL using
// the bot token for authentication
func (c *Client) DownloadFile(ctx context.Context, downloadURL string) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.client.GetFileContext(ctx, downloadURL, &buf); err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}

	return buf.Bytes(), nil
}

// ThreadTimestamp finds the message timestamp a file share should be
// answered under. Slack records where a file was shared per channel; the
// first share in the originating channel is the announcement message.
func ThreadTimestamp(file *slack.File, channelID string) string {
	if file == nil {
		return ""
	}
	if shares, ok := file.Shares.Public[channelID]; ok && len(shares) > 0 {
		return shares[0].Ts
	}
	if shares, ok := file.Shares.Private[channelID]; ok && len(shares) > 0 {
		return shares[0].Ts
	}
	return ""
}

// AuthTest verifies the bot token is valid
func (c *Client) AuthTest(ctx context.Context) (*slack.AuthTestResponse, error) {
	resp, err := c.client.AuthTestContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth test: %w", err)
	}

	return resp, nil
}
