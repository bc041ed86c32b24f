package models

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Submission tracks one document intake from file share to stored article.
// The Lambda topology writes it on the ack path and the worker picks it up.
type Submission struct {
	SubmissionID string     `dynamodbav:"submission_id"`
	ChannelID    string     `dynamodbav:"channel_id"`
	UserID       string     `dynamodbav:"user_id"`
	FileID       string     `dynamodbav:"file_id"`
	FileName     string     `dynamodbav:"file_name,omitempty"`
	ThreadTS     string     `dynamodbav:"thread_ts,omitempty"`
	Status       string     `dynamodbav:"status"` // pending, extracted, saved, failed
	Error        string     `dynamodbav:"error,omitempty"`
	CreatedAt    time.Time  `dynamodbav:"created_at"`
	CompletedAt  *time.Time `dynamodbav:"completed_at,omitempty"`
	TTL          int64      `dynamodbav:"ttl"` // Unix timestamp (7 days)
}

// IntakeInput is the payload handed to Step Functions when detaching the
// slow intake work from the Lambda ack path
type IntakeInput struct {
	SubmissionID string `json:"submissionId"`
	ChannelID    string `json:"channelId"`
	FileID       string `json:"fileId"`
}

// Submission status constants
const (
	StatusPending   = "pending"
	StatusExtracted = "extracted"
	StatusSaved     = "saved"
	StatusFailed    = "failed"
)

// NewSubmission creates a pending submission for a shared file
func NewSubmission(channelID, userID, fileID, fileName, threadTS string) *Submission {
	now := time.Now()

	return &Submission{
		SubmissionID: "sub-" + newULID(),
		ChannelID:    channelID,
		UserID:       userID,
		FileID:       fileID,
		FileName:     fileName,
		ThreadTS:     threadTS,
		Status:       StatusPending,
		CreatedAt:    now,
		TTL:          now.AddDate(0, 0, 7).Unix(),
	}
}

// UpdateStatus changes the submission status, stamping terminal states
func (s *Submission) UpdateStatus(status string) {
	s.Status = status
	if status == StatusSaved || status == StatusFailed {
		now := time.Now()
		s.CompletedAt = &now
	}
}

// newULID generates a ULID string for unique identifiers
func newULID() string {
	id, _ := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	return id.String()
}
