package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"

	"portfolio-backend/internal/models"
)

// SQLiteChatRepo stores interactions in a local SQLite file. Timestamps are
// kept as unix nanoseconds.
type SQLiteChatRepo struct {
	db *sql.DB
}

func NewSQLiteChatRepo(db *sql.DB) *SQLiteChatRepo {
	return &SQLiteChatRepo{db: db}
}

type sqliteInteraction struct {
	ID        string  `db:"id"`
	SessionID string  `db:"session_id"`
	Message   string  `db:"message"`
	Response  *string `db:"response"`
	TsNanos   int64   `db:"ts_nanos"`
}

func (r *SQLiteChatRepo) Insert(ctx context.Context, ci *models.ChatInteraction) error {
	fillDefaults(ci)
	query := `INSERT OR IGNORE INTO chat_interactions (id, session_id, message, response, ts_nanos)
		VALUES (?, ?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, ci.ID, ci.SessionID, ci.Message, ci.Response, ci.Timestamp.UnixNano()); err != nil {
		return fmt.Errorf("failed to insert chat interaction: %w", err)
	}
	return nil
}

func (r *SQLiteChatRepo) Record(ctx context.Context, sessionID, message string, response *string) error {
	return r.Insert(ctx, NewInteraction(sessionID, message, response))
}

func (r *SQLiteChatRepo) History(ctx context.Context, sessionID string, limit int) ([]models.ChatInteraction, error) {
	query := `SELECT id, session_id, message, response, ts_nanos
		FROM chat_interactions WHERE session_id = ?
		ORDER BY ts_nanos DESC LIMIT ?`

	var rows []sqliteInteraction
	if err := sqlscan.Select(ctx, r.db, &rows, query, sessionID, limit); err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	out := make([]models.ChatInteraction, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.ChatInteraction{
			ID:        row.ID,
			SessionID: row.SessionID,
			Message:   row.Message,
			Response:  row.Response,
			Timestamp: time.Unix(0, row.TsNanos).UTC(),
		})
	}
	return out, nil
}
