package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/savaki/research-bot/pkg/extract"
	"github.com/savaki/research-bot/pkg/models"
	slackapi "github.com/savaki/research-bot/pkg/slack"
	"github.com/slack-go/slack"
)

// FileSource fetches file details and bytes from Slack
type FileSource interface {
	GetFileInfo(ctx context.Context, fileID string) (*slack.File, error)
	DownloadFile(ctx context.Context, downloadURL string) ([]byte, error)
}

// ArticleStore writes extracted metadata to the tabular store
type ArticleStore interface {
	Create(ctx context.Context, article *models.Article) error
}

// Intake is the document-intake-and-summarize workflow: download the shared
// PDF, extract metadata with the LLM, write one article record, and report
// back. A store failure after a successful extraction yields a partial
// result so the user knows the summary exists but was not saved.
type Intake struct {
	files     FileSource
	extractor extract.Extractor
	store     ArticleStore
	logger    *log.Logger
}

// NewIntake creates the intake handler with its collaborators injected
func NewIntake(files FileSource, extractor extract.Extractor, store ArticleStore) *Intake {
	return &Intake{
		files:     files,
		extractor: extractor,
		store:     store,
		logger:    log.WithPrefix("workflow.intake"),
	}
}

// Handle runs the intake for one file_shared event
func (i *Intake) Handle(ctx context.Context, event models.InboundEvent) Result {
	file, err := i.files.GetFileInfo(ctx, event.FileID)
	if err != nil {
		return i.fail("I couldn't look up that file on Slack.", err)
	}

	i.logger.Info("processing document", "file", file.Name, "mimetype", file.Mimetype)

	data, err := i.files.DownloadFile(ctx, file.URLPrivateDownload)
	if err != nil {
		return i.fail(fmt.Sprintf("I couldn't download *%s* from Slack.", file.Name), err)
	}

	meta, err := i.extractor.ExtractMetadata(ctx, extract.Document{Name: file.Name, Content: data})
	if err != nil {
		return i.fail(fmt.Sprintf("Metadata extraction failed for *%s*.", file.Name), err)
	}

	article := &models.Article{
		RecordID:    models.NewRecordID(),
		Title:       meta.Title,
		Year:        meta.Year,
		Topic:       meta.Topic,
		StudyType:   meta.StudyType,
		Link:        meta.Link,
		Summary:     meta.Summary,
		SourceFile:  file.Name,
		SubmittedBy: event.User,
		CreatedAt:   time.Now(),
	}

	if err := i.store.Create(ctx, article); err != nil {
		// The summary exists; only the save failed. Surface that
		// distinctly from a total failure.
		i.logger.Error("article save failed after extraction", "file", file.Name, "err", err)
		return Result{
			Status: StatusPartial,
			Reply:  fmt.Sprintf("PDF summarized, but not saved: %s", file.Name),
			Blocks: ConfirmationBlocks(file.Name, meta, ""),
			Err:    err,
		}
	}

	i.logger.Info("document intake complete", "file", file.Name, "record_id", article.RecordID)
	return Result{
		Status: StatusOK,
		Reply:  fmt.Sprintf("PDF analysis complete: %s", file.Name),
		Blocks: ConfirmationBlocks(file.Name, meta, article.RecordID),
	}
}

func (i *Intake) fail(reply string, err error) Result {
	i.logger.Error("intake failed", "err", err)
	return Result{
		Status: StatusFailed,
		Reply:  fmt.Sprintf("❌ PDF processing error\n\n%s Please try again or contact support.", reply),
		Err:    err,
	}
}

// compile-time check that the real Slack client satisfies FileSource
var _ FileSource = (*slackapi.Client)(nil)
