package services

import (
	"slices"

	"portfolio-backend/internal/models"
)

// Reconstruct turns stored interactions (newest-first, as the store returns
// them) into the oldest-first thread shown to the visitor. Each row yields its
// user message, then the assistant reply when one was recorded.
func Reconstruct(rows []models.ChatInteraction) []models.DisplayMessage {
	ordered := slices.Clone(rows)
	slices.Reverse(ordered)

	out := make([]models.DisplayMessage, 0, 2*len(ordered))
	for _, row := range ordered {
		out = append(out, models.DisplayMessage{
			ID:        "user_" + row.ID,
			Role:      models.RoleUser,
			Content:   row.Message,
			Timestamp: row.Timestamp,
		})
		if row.Response != nil && *row.Response != "" {
			out = append(out, models.DisplayMessage{
				ID:        "assistant_" + row.ID,
				Role:      models.RoleAssistant,
				Content:   *row.Response,
				Timestamp: row.Timestamp,
			})
		}
	}
	return out
}
