// Package extract turns a PDF document into structured article metadata by
// way of an LLM. The bot is schema-agnostic everywhere else; the field set
// and its enums live here.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Document is the input to an extraction: the file's name and raw bytes
type Document struct {
	Name    string
	Content []byte
}

// Metadata is the structured result extracted from a document
type Metadata struct {
	Title     string `json:"title"`
	Year      *int   `json:"year,omitempty"`
	Topic     string `json:"topic"`
	StudyType string `json:"study_type"`
	Link      string `json:"link,omitempty"`
	Summary   string `json:"summary"`
}

// Extractor is the LLM collaborator boundary: one operation, structured
// result or failure
type Extractor interface {
	ExtractMetadata(ctx context.Context, doc Document) (Metadata, error)
}

var validTopics = []string{
	"Learning outcomes",
	"Tool development",
	"Professional practice",
	"Student perspectives",
	"User experience and interaction",
	"Theoretical background",
	"AI literacy",
	"Other",
}

var validStudyTypes = []string{
	"Review",
	"Experimental",
	"Quantitative",
	"Qualitative",
	"Mixed-methods",
	"Observational",
}

// Normalize coerces the enum fields onto their valid sets, matching
// case-insensitively and defaulting to "Other" / "Review" when the model
// produced something outside the vocabulary.
func (m *Metadata) Normalize() {
	m.Topic = normalizeEnum(m.Topic, validTopics, "Other")
	m.StudyType = normalizeEnum(m.StudyType, validStudyTypes, "Review")
}

func normalizeEnum(value string, valid []string, fallback string) string {
	for _, v := range valid {
		if value == v {
			return v
		}
	}
	for _, v := range valid {
		if strings.EqualFold(value, v) {
			return v
		}
	}
	return fallback
}

// extractionPrompt instructs the model to answer with a single JSON object
// matching Metadata. Kept in one place so both providers stay in sync.
const extractionPrompt = `Analyze the attached research document and extract its metadata.

Respond with a single JSON object and nothing else, using exactly these fields:
{
  "title": "the document title",
  "year": 2024,
  "topic": "one of: Learning outcomes, Tool development, Professional practice, Student perspectives, User experience and interaction, Theoretical background, AI literacy, Other",
  "study_type": "one of: Review, Experimental, Quantitative, Qualitative, Mixed-methods, Observational",
  "link": "URL or DOI of the original document if mentioned, otherwise omit",
  "summary": "a comprehensive summary of the document's key findings and contributions"
}

Omit "year" and "link" when the document does not state them.`

// parseMetadata pulls the JSON object out of a model reply. Models wrap
// JSON in code fences or prose often enough that we scan for the outermost
// braces instead of unmarshaling the reply as-is.
func parseMetadata(reply string) (Metadata, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return Metadata{}, fmt.Errorf("no JSON object in model reply")
	}

	var meta Metadata
	if err := json.Unmarshal([]byte(reply[start:end+1]), &meta); err != nil {
		return Metadata{}, fmt.Errorf("unmarshal metadata: %w", err)
	}

	if meta.Title == "" {
		return Metadata{}, fmt.Errorf("metadata missing title")
	}
	if meta.Summary == "" {
		return Metadata{}, fmt.Errorf("metadata missing summary")
	}

	meta.Normalize()
	return meta, nil
}
