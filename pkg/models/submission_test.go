package models

import (
	"strings"
	"testing"
	"time"
)

func TestNewSubmission(t *testing.T) {
	sub := NewSubmission("C123", "U456", "F789", "paper.pdf", "1700000000.000100")

	if !strings.HasPrefix(sub.SubmissionID, "sub-") {
		t.Errorf("SubmissionID = %s, want sub- prefix", sub.SubmissionID)
	}

	if sub.Status != StatusPending {
		t.Errorf("Status = %s, want %s", sub.Status, StatusPending)
	}

	if sub.ChannelID != "C123" || sub.UserID != "U456" || sub.FileID != "F789" {
		t.Errorf("unexpected identity fields: %+v", sub)
	}

	if sub.CompletedAt != nil {
		t.Error("CompletedAt should be nil for a new submission")
	}

	wantTTL := time.Now().AddDate(0, 0, 7).Unix()
	if sub.TTL < wantTTL-5 || sub.TTL > wantTTL+5 {
		t.Errorf("TTL = %d, want about %d", sub.TTL, wantTTL)
	}
}

func TestSubmissionIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		sub := NewSubmission("C123", "U456", "F789", "", "")
		if seen[sub.SubmissionID] {
			t.Fatalf("duplicate SubmissionID: %s", sub.SubmissionID)
		}
		seen[sub.SubmissionID] = true
	}
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name          string
		status        string
		wantCompleted bool
	}{
		{name: "extracted is not terminal", status: StatusExtracted, wantCompleted: false},
		{name: "saved is terminal", status: StatusSaved, wantCompleted: true},
		{name: "failed is terminal", status: StatusFailed, wantCompleted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := NewSubmission("C123", "U456", "F789", "", "")
			sub.UpdateStatus(tt.status)

			if sub.Status != tt.status {
				t.Errorf("Status = %s, want %s", sub.Status, tt.status)
			}
			if (sub.CompletedAt != nil) != tt.wantCompleted {
				t.Errorf("CompletedAt set = %v, want %v", sub.CompletedAt != nil, tt.wantCompleted)
			}
		})
	}
}

func TestNewRecordID(t *testing.T) {
	id := NewRecordID()
	if !strings.HasPrefix(id, "rec-") {
		t.Errorf("NewRecordID() = %s, want rec- prefix", id)
	}
}
