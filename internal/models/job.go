package models

import "time"

// InteractionJob carries a ChatInteraction through the persistence queue.
type InteractionJob struct {
	Interaction ChatInteraction `json:"interaction"`
	EnqueuedAt  time.Time       `json:"enqueued_at"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
