package models

import "time"

// ChatInteraction is one persisted exchange. Response is nil when no reply was
// recorded.
type ChatInteraction struct {
	ID        string    `json:"id" db:"id"`
	SessionID string    `json:"session_id" db:"session_id"`
	Message   string    `json:"message" db:"message"`
	Response  *string   `json:"response" db:"response"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DisplayMessage is one chat bubble shown to the visitor.
type DisplayMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest is the payload sent to the message endpoint.
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// ChatResponse is the reply from the message endpoint.
type ChatResponse struct {
	Reply            string         `json:"reply"`
	UserMessage      DisplayMessage `json:"user_message"`
	AssistantMessage DisplayMessage `json:"assistant_message"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
}

type HistoryResponse struct {
	Messages []DisplayMessage `json:"messages"`
}
