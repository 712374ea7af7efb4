package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio-backend/internal/models"
	"portfolio-backend/internal/services"
)

const (
	popTimeout = 30 * time.Second
	lockTTL    = time.Minute
)

// InteractionStore is where drained jobs are written. Insert must be
// idempotent on the interaction ID.
type InteractionStore interface {
	Insert(ctx context.Context, ci *models.ChatInteraction) error
}

// Queue is the slice of the Redis client the pool uses.
type Queue interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Pool drains the interaction queue into the store. A failed write is
// logged and dropped; jobs are never requeued.
type Pool struct {
	redis       Queue
	store       InteractionStore
	workerCount int
	logger      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPool(queue Queue, store InteractionStore, workerCount int, logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		redis:       queue,
		store:       store,
		workerCount: workerCount,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.logger.Info("worker pool started", slog.Int("workers", p.workerCount), slog.String("queue", services.InteractionQueue))
}

// Stop cancels in-flight pops and waits for workers to exit.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	logger := p.logger.With(slog.Int("worker", id))

	for {
		if p.ctx.Err() != nil {
			logger.Info("worker shutting down")
			return
		}

		result, err := p.redis.BLPop(p.ctx, popTimeout, services.InteractionQueue).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && p.ctx.Err() == nil {
				logger.Warn("queue pop failed", slog.Any("error", err))
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}

		job, err := services.DecodeJob(result[1])
		if err != nil {
			logger.Error("dropping unreadable job", slog.Any("error", err))
			continue
		}

		p.process(logger, job)
	}
}

// process writes one job. It reports whether the interaction reached the store.
func (p *Pool) process(logger *slog.Logger, job models.InteractionJob) bool {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(p.ctx), 10*time.Second)
	defer cancel()

	id := job.Interaction.ID
	lockKey := fmt.Sprintf("interaction_lock:%s", id)
	locked, err := p.redis.SetNX(ctx, lockKey, "1", lockTTL).Result()
	if err != nil {
		logger.Error("interaction dropped, lock failed", slog.String("id", id), slog.Any("error", err))
		return false
	}
	if !locked {
		logger.Debug("interaction already being stored", slog.String("id", id))
		return false
	}
	defer p.redis.Del(ctx, lockKey)

	if err := p.store.Insert(ctx, &job.Interaction); err != nil {
		logger.Error("interaction dropped, store failed",
			slog.String("id", id),
			slog.String("session_id", job.Interaction.SessionID),
			slog.Any("error", err),
		)
		return false
	}

	logger.Debug("interaction stored",
		slog.String("id", id),
		slog.String("session_id", job.Interaction.SessionID),
	)
	return true
}
