package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/repository"
	"portfolio-backend/internal/services"
)

type fakeQueue struct {
	mu       sync.Mutex
	payloads chan string
	locks    map[string]bool
	lockErr  error
	deleted  []string
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{payloads: make(chan string, 8), locks: make(map[string]bool)}
}

func (q *fakeQueue) BLPop(ctx context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
	select {
	case p := <-q.payloads:
		return redis.NewStringSliceResult([]string{keys[0], p}, nil)
	case <-ctx.Done():
		return redis.NewStringSliceResult(nil, ctx.Err())
	}
}

func (q *fakeQueue) SetNX(_ context.Context, key string, _ interface{}, _ time.Duration) *redis.BoolCmd {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.lockErr != nil {
		return redis.NewBoolResult(false, q.lockErr)
	}
	if q.locks[key] {
		return redis.NewBoolResult(false, nil)
	}
	q.locks[key] = true
	return redis.NewBoolResult(true, nil)
}

func (q *fakeQueue) Del(_ context.Context, keys ...string) *redis.IntCmd {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, k := range keys {
		delete(q.locks, k)
		q.deleted = append(q.deleted, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

type fakeStore struct {
	mu       sync.Mutex
	inserted []models.ChatInteraction
	calls    int
	err      error
	done     chan struct{}
}

func (s *fakeStore) Insert(_ context.Context, ci *models.ChatInteraction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.done != nil {
		defer func() { s.done <- struct{}{} }()
	}
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, *ci)
	return nil
}

func testJob() models.InteractionJob {
	reply := "yo"
	return services.NewInteractionJob(repository.NewInteraction("s1", "hi", &reply))
}

func TestProcess_StoresAndReleasesLock(t *testing.T) {
	queue := newFakeQueue()
	store := &fakeStore{}
	pool := NewPool(queue, store, 1, logging.Nop())
	job := testJob()

	if !pool.process(logging.Nop(), job) {
		t.Fatal("expected interaction to be stored")
	}
	if len(store.inserted) != 1 || store.inserted[0].ID != job.Interaction.ID {
		t.Fatalf("inserted = %+v, want job %s", store.inserted, job.Interaction.ID)
	}
	want := "interaction_lock:" + job.Interaction.ID
	if len(queue.deleted) != 1 || queue.deleted[0] != want {
		t.Errorf("deleted locks = %v, want [%s]", queue.deleted, want)
	}
}

func TestProcess_StoreFailureIsDroppedNotRetried(t *testing.T) {
	queue := newFakeQueue()
	store := &fakeStore{err: errors.New("db down")}
	pool := NewPool(queue, store, 1, logging.Nop())

	if pool.process(logging.Nop(), testJob()) {
		t.Fatal("expected failure")
	}
	if store.calls != 1 {
		t.Errorf("insert calls = %d, want 1", store.calls)
	}
	if n := len(queue.payloads); n != 0 {
		t.Errorf("queue holds %d jobs after a failed write, want 0", n)
	}
	if len(queue.locks) != 0 {
		t.Errorf("lock not released: %v", queue.locks)
	}
}

func TestProcess_LockHeldSkipsInsert(t *testing.T) {
	queue := newFakeQueue()
	store := &fakeStore{}
	pool := NewPool(queue, store, 1, logging.Nop())
	job := testJob()
	queue.locks["interaction_lock:"+job.Interaction.ID] = true

	if pool.process(logging.Nop(), job) {
		t.Fatal("expected skip while another worker holds the lock")
	}
	if store.calls != 0 {
		t.Errorf("insert calls = %d, want 0", store.calls)
	}
	if !queue.locks["interaction_lock:"+job.Interaction.ID] {
		t.Error("foreign lock was released")
	}
}

func TestProcess_LockErrorSkipsInsert(t *testing.T) {
	queue := newFakeQueue()
	queue.lockErr = errors.New("redis unavailable")
	store := &fakeStore{}
	pool := NewPool(queue, store, 1, logging.Nop())

	if pool.process(logging.Nop(), testJob()) {
		t.Fatal("expected failure")
	}
	if store.calls != 0 {
		t.Errorf("insert calls = %d, want 0", store.calls)
	}
}

func TestPool_DrainsQueue(t *testing.T) {
	queue := newFakeQueue()
	store := &fakeStore{done: make(chan struct{}, 4)}
	pool := NewPool(queue, store, 2, logging.Nop())
	pool.Start()
	defer pool.Stop()

	job := testJob()
	payload, err := services.EncodeJob(job)
	if err != nil {
		t.Fatal(err)
	}
	queue.payloads <- "not json"
	queue.payloads <- payload

	select {
	case <-store.done:
	case <-time.After(5 * time.Second):
		t.Fatal("job was not stored")
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.inserted) != 1 || store.inserted[0].SessionID != "s1" {
		t.Errorf("inserted = %+v", store.inserted)
	}
}
