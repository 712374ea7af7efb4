package repository

import (
	"time"

	"github.com/google/uuid"

	"portfolio-backend/internal/models"
)

// NewInteraction builds a row ready for Insert.
func NewInteraction(sessionID, message string, response *string) *models.ChatInteraction {
	return &models.ChatInteraction{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Message:   message,
		Response:  response,
		Timestamp: time.Now().UTC(),
	}
}

func fillDefaults(ci *models.ChatInteraction) {
	if ci.ID == "" {
		ci.ID = uuid.NewString()
	}
	if ci.Timestamp.IsZero() {
		ci.Timestamp = time.Now().UTC()
	}
}
