package storage

import "time"

// Interaction is one completed chat turn: the user's message and the
// assistant's final answer with the event ids it surfaced.
// Interactions are expected to be appended in chronological order.
type Interaction struct {
	Timestamp     time.Time `json:"timestamp"`
	UserID        string    `json:"user_id"`
	UserMessage   string    `json:"user_message"`
	AssistantText string    `json:"assistant_text"`
	OptionIDs     []string  `json:"option_ids,omitempty"`
}

// Recorder abstracts persistence of chat interactions.
// Implementations can be file-based, database, etc.
// LoadInteractions should return interactions in chronological order.
// AppendInteraction should atomically append a new record.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(interaction Interaction) error
	LoadInteractions() ([]Interaction, error)
}
