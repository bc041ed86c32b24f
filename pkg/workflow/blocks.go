package workflow

import (
	"fmt"
	"strings"

	"github.com/savaki/research-bot/pkg/extract"
	"github.com/slack-go/slack"
)

// Slack truncates section blocks around 3000 characters; stay under it
const maxSectionLength = 2800

// ConfirmationBlocks renders the intake confirmation: a header, the
// extracted metadata as a field grid, the summary chunked into sections,
// and a footer naming the stored record. An empty recordID marks the
// partial-success case where the article was not saved.
func ConfirmationBlocks(fileName string, meta extract.Metadata, recordID string) []slack.Block {
	year := "N/A"
	if meta.Year != nil {
		year = fmt.Sprintf("%d", *meta.Year)
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, fmt.Sprintf("📄 PDF Analysis Complete: %s", fileName), true, false),
		),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Title:*\n%s", meta.Title), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Year:*\n%s", year), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Topic:*\n%s", meta.Topic), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Study Type:*\n%s", meta.StudyType), false, false),
		}, nil),
	}

	if meta.Link != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*🔗 Link:* %s", meta.Link), false, false),
			nil, nil,
		))
	}

	blocks = append(blocks, slack.NewDividerBlock())

	summary := fmt.Sprintf("*📝 Summary:*\n%s", meta.Summary)
	for _, chunk := range ChunkAtLineBreaks(summary, maxSectionLength) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, chunk, false, false),
			nil, nil,
		))
	}

	blocks = append(blocks, slack.NewDividerBlock())

	footer := fmt.Sprintf("🗃️ Saved as record `%s`", recordID)
	if recordID == "" {
		footer = "⚠️ The summary could not be saved to the articles table. Re-upload the file to retry."
	}
	blocks = append(blocks, slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, footer, false, false),
		nil, nil,
	))

	return blocks
}

// ChunkAtLineBreaks splits text into chunks no longer than maxLength,
// breaking at newlines where possible. A single line longer than maxLength
// is split mid-line.
func ChunkAtLineBreaks(text string, maxLength int) []string {
	if len(text) <= maxLength {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	for _, line := range strings.Split(text, "\n") {
		// Hard-split oversized single lines
		for len(line) > maxLength {
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			chunks = append(chunks, line[:maxLength])
			line = line[maxLength:]
		}

		// +1 for the newline separator
		if current.Len() > 0 && current.Len()+len(line)+1 > maxLength {
			chunks = append(chunks, current.String())
			current.Reset()
		}

		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
