// internal/models/message.go
package models

import "time"

// InboundMessage is a single customer message as delivered by the
// WhatsApp bridge. Request-scoped, never persisted by the pipeline.
type InboundMessage struct {
	From      string    `json:"from"`
	Name      string    `json:"name,omitempty"`
	Text      string    `json:"message"`
	MessageID string    `json:"messageId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ExtractedEntities holds whatever the lexical extractor could pull out
// of the raw text. Absent signals stay at their zero value; Keywords
// accumulates every token that fired, duplicates included.
type ExtractedEntities struct {
	Brand    string   `json:"brand,omitempty"`
	Model    string   `json:"model,omitempty"`
	Budget   int      `json:"budget,omitempty"`
	Keywords []string `json:"keywords"`
}

// Analysis is the classified view of one inbound message. It is what
// the webhook hands to the workflow engine and what the conversation
// cache stores per sender.
type Analysis struct {
	Intent   Intent            `json:"intent"`
	Entities ExtractedEntities `json:"entities"`
	Action   string            `json:"suggestedAction"`
	At       time.Time         `json:"at"`
}
