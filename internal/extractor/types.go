package extractor

import (
	"time"

	"github.com/MikeSquared-Agency/scribe/internal/thread"
)

// Message is a single sanitized turn in the flat conversation history.
type Message struct {
	Role       thread.Role `json:"role"`
	Content    string      `json:"content"`
	AuthorName string      `json:"authorName"`
	CreatedAt  *time.Time  `json:"createdAt,omitempty"`

	// IsHTML flags assistant content that still carries a markup document
	// root after isolation. Diagnostic only — it is not a promise that the
	// content is well-formed markup.
	IsHTML bool `json:"isHtml"`
}

// Result is the outcome of extracting one thread document. All failure modes
// are carried here; Extract never panics or returns an error. Callers must
// check Success before relying on the other fields.
type Result struct {
	Success               bool      `json:"success"`
	ErrorMessage          string    `json:"errorMessage"`
	Messages              []Message `json:"messages"`
	LastAssistantResponse string    `json:"lastAssistantResponse"`
	ConversationCount     int       `json:"conversationCount"`

	// CleanedDocumentJSON is a compact re-serialization of the input
	// document with every text payload flattened to plain prose.
	CleanedDocumentJSON string `json:"cleanedDocumentJson"`
}
