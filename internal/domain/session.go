package domain

import "time"

// MessageRole identifies the author of a transcript message.
type MessageRole string

const (
	RoleUser MessageRole = "user"
	RoleBot  MessageRole = "bot"
)

// Session represents a conversation session.
type Session struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a single message in a session transcript. The transcript is
// append-only, except that a "Procesando..." bot placeholder may be
// replaced in place once resolution completes.
type Message struct {
	MessageID string      `json:"message_id"`
	SessionID string      `json:"session_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// PendingCorrection is the last utterance of a session that received a
// low-confidence or ambiguous result, held until the user disambiguates
// or a new utterance supersedes it.
type PendingCorrection struct {
	SessionID string
	Utterance string
	CreatedAt time.Time
}
