package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio-backend/internal/models"
	"portfolio-backend/internal/repository"
)

const InteractionQueue = "queue:chat-interactions"

// Pusher is the slice of the Redis client QueuedRecorder needs.
type Pusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// QueuedRecorder hands interactions to the worker pool through Redis instead
// of writing them inline.
type QueuedRecorder struct {
	redis Pusher
}

func NewQueuedRecorder(client Pusher) *QueuedRecorder {
	return &QueuedRecorder{redis: client}
}

func (q *QueuedRecorder) Record(ctx context.Context, sessionID, message string, response *string) error {
	payload, err := EncodeJob(NewInteractionJob(repository.NewInteraction(sessionID, message, response)))
	if err != nil {
		return err
	}
	if err := q.redis.LPush(ctx, InteractionQueue, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue chat interaction: %w", err)
	}
	return nil
}

func NewInteractionJob(ci *models.ChatInteraction) models.InteractionJob {
	return models.InteractionJob{
		Interaction: *ci,
		EnqueuedAt:  time.Now().UTC(),
	}
}

func EncodeJob(job models.InteractionJob) (string, error) {
	b, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to encode interaction job: %w", err)
	}
	return string(b), nil
}

func DecodeJob(payload string) (models.InteractionJob, error) {
	var job models.InteractionJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return job, fmt.Errorf("failed to parse interaction job: %w", err)
	}
	return job, nil
}
