package models

import "time"

// Article is one row in the articles table: the structured metadata the
// extractor pulled out of a shared PDF, plus provenance.
type Article struct {
	RecordID    string    `dynamodbav:"record_id"`
	Title       string    `dynamodbav:"title"`
	Year        *int      `dynamodbav:"year,omitempty"`
	Topic       string    `dynamodbav:"topic"`
	StudyType   string    `dynamodbav:"study_type"`
	Link        string    `dynamodbav:"link,omitempty"`
	Summary     string    `dynamodbav:"summary"`
	SourceFile  string    `dynamodbav:"source_file"`
	SubmittedBy string    `dynamodbav:"submitted_by"`
	CreatedAt   time.Time `dynamodbav:"created_at"`
}

// NewRecordID generates an identifier for a stored article
func NewRecordID() string {
	return "rec-" + newULID()
}
