package repository

import (
	"context"
	"slices"
	"sync"

	"portfolio-backend/internal/models"
)

// MemoryChatRepo keeps interactions in process memory. Contents are lost on
// restart.
type MemoryChatRepo struct {
	mu       sync.RWMutex
	sessions map[string][]models.ChatInteraction
	ids      map[string]struct{}
}

func NewMemoryChatRepo() *MemoryChatRepo {
	return &MemoryChatRepo{
		sessions: make(map[string][]models.ChatInteraction),
		ids:      make(map[string]struct{}),
	}
}

func (r *MemoryChatRepo) Insert(_ context.Context, ci *models.ChatInteraction) error {
	fillDefaults(ci)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, seen := r.ids[ci.ID]; seen {
		return nil
	}
	r.ids[ci.ID] = struct{}{}
	r.sessions[ci.SessionID] = append(r.sessions[ci.SessionID], *ci)
	return nil
}

func (r *MemoryChatRepo) Record(ctx context.Context, sessionID, message string, response *string) error {
	return r.Insert(ctx, NewInteraction(sessionID, message, response))
}

func (r *MemoryChatRepo) History(_ context.Context, sessionID string, limit int) ([]models.ChatInteraction, error) {
	r.mu.RLock()
	rows := slices.Clone(r.sessions[sessionID])
	r.mu.RUnlock()

	// Later inserts win ties.
	slices.Reverse(rows)
	slices.SortStableFunc(rows, func(a, b models.ChatInteraction) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
