package models

import "time"

// ConversationMessage is one side of a turn; Sender is "user" or "ai".
type ConversationMessage struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Memory is the instruction the assistant was asked to keep in mind for a
// user. It is re-injected into every chat prompt.
type Memory struct {
	UserID      int64     `json:"user_id"`
	Instruction string    `json:"instruction"`
	UpdatedAt   time.Time `json:"updated_at"`
}
