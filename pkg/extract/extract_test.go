package extract

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name          string
		topic         string
		studyType     string
		wantTopic     string
		wantStudyType string
	}{
		{
			name:          "exact matches pass through",
			topic:         "AI literacy",
			studyType:     "Mixed-methods",
			wantTopic:     "AI literacy",
			wantStudyType: "Mixed-methods",
		},
		{
			name:          "case-insensitive match is canonicalized",
			topic:         "tool development",
			studyType:     "EXPERIMENTAL",
			wantTopic:     "Tool development",
			wantStudyType: "Experimental",
		},
		{
			name:          "unknown values fall back to defaults",
			topic:         "Quantum basket weaving",
			studyType:     "Anecdotal",
			wantTopic:     "Other",
			wantStudyType: "Review",
		},
		{
			name:          "empty values fall back to defaults",
			topic:         "",
			studyType:     "",
			wantTopic:     "Other",
			wantStudyType: "Review",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Metadata{Topic: tt.topic, StudyType: tt.studyType}
			m.Normalize()

			if m.Topic != tt.wantTopic {
				t.Errorf("Topic = %s, want %s", m.Topic, tt.wantTopic)
			}
			if m.StudyType != tt.wantStudyType {
				t.Errorf("StudyType = %s, want %s", m.StudyType, tt.wantStudyType)
			}
		})
	}
}

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		wantTitle string
		wantYear  int
		wantErr   bool
	}{
		{
			name:      "bare JSON",
			reply:     `{"title":"A Study","year":2023,"topic":"AI literacy","study_type":"Review","summary":"Findings."}`,
			wantTitle: "A Study",
			wantYear:  2023,
		},
		{
			name: "JSON in code fences",
			reply: "Here is the metadata:\n```json\n" +
				`{"title":"Fenced Study","year":2021,"topic":"Other","study_type":"Qualitative","summary":"Findings."}` +
				"\n```\nLet me know if you need anything else.",
			wantTitle: "Fenced Study",
			wantYear:  2021,
		},
		{
			name:    "no JSON at all",
			reply:   "I could not read the document.",
			wantErr: true,
		},
		{
			name:    "missing title",
			reply:   `{"topic":"Other","study_type":"Review","summary":"Findings."}`,
			wantErr: true,
		},
		{
			name:    "missing summary",
			reply:   `{"title":"A Study","topic":"Other","study_type":"Review"}`,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			reply:   `{"title":"A Study",`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := parseMetadata(tt.reply)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMetadata() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if meta.Title != tt.wantTitle {
				t.Errorf("Title = %s, want %s", meta.Title, tt.wantTitle)
			}
			if meta.Year == nil || *meta.Year != tt.wantYear {
				t.Errorf("Year = %v, want %d", meta.Year, tt.wantYear)
			}
		})
	}
}

func TestParseMetadataNormalizesEnums(t *testing.T) {
	meta, err := parseMetadata(`{"title":"T","topic":"made up","study_type":"made up","summary":"S"}`)
	if err != nil {
		t.Fatalf("parseMetadata() error = %v", err)
	}
	if meta.Topic != "Other" {
		t.Errorf("Topic = %s, want Other", meta.Topic)
	}
	if meta.StudyType != "Review" {
		t.Errorf("StudyType = %s, want Review", meta.StudyType)
	}
}
