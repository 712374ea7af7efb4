package repository

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio-backend/internal/models"
)

// ChatInteractionRepo stores interactions in Postgres.
type ChatInteractionRepo struct {
	pool *pgxpool.Pool
}

func NewChatInteractionRepo(pool *pgxpool.Pool) *ChatInteractionRepo {
	return &ChatInteractionRepo{pool: pool}
}

// Insert writes ci once. Replaying the same ID is a no-op, which keeps queue
// retries idempotent.
func (r *ChatInteractionRepo) Insert(ctx context.Context, ci *models.ChatInteraction) error {
	fillDefaults(ci)
	query := `INSERT INTO chat_interactions (id, session_id, message, response, timestamp)
		VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, ci.ID, ci.SessionID, ci.Message, ci.Response, ci.Timestamp); err != nil {
		return fmt.Errorf("failed to insert chat interaction: %w", err)
	}
	return nil
}

func (r *ChatInteractionRepo) Record(ctx context.Context, sessionID, message string, response *string) error {
	return r.Insert(ctx, NewInteraction(sessionID, message, response))
}

// History returns up to limit rows for the session, newest-first.
func (r *ChatInteractionRepo) History(ctx context.Context, sessionID string, limit int) ([]models.ChatInteraction, error) {
	query := `SELECT id, session_id, message, response, timestamp
		FROM chat_interactions WHERE session_id = $1
		ORDER BY timestamp DESC LIMIT $2`

	var rows []models.ChatInteraction
	if err := pgxscan.Select(ctx, r.pool, &rows, query, sessionID, limit); err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	return rows, nil
}
