package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/repository"
)

type fakeReplier struct {
	reply       string
	lastMessage string
	lastContext string
	hadDeadline bool
}

func (f *fakeReplier) Reply(ctx context.Context, message, contextBlock string) string {
	f.lastMessage = message
	f.lastContext = contextBlock
	_, f.hadDeadline = ctx.Deadline()
	return f.reply
}

type failingStore struct{}

func (failingStore) Record(context.Context, string, string, *string) error {
	return errors.New("store down")
}

func (failingStore) History(context.Context, string, int) ([]models.ChatInteraction, error) {
	return nil, errors.New("store down")
}

func TestChatService_SendRecordsAndReplies(t *testing.T) {
	replier := &fakeReplier{reply: "hello back"}
	store := repository.NewMemoryChatRepo()
	svc := NewChatService(replier, store, store, ChatOptions{ContextBlock: "projects", RequestTimeout: time.Minute}, logging.Nop())

	resp, err := svc.Send(context.Background(), "s1", "  hi there  ")
	require.NoError(t, err)
	assert.Equal(t, "hello back", resp.Reply)
	assert.Equal(t, "hi there", replier.lastMessage)
	assert.Equal(t, "projects", replier.lastContext)
	assert.True(t, replier.hadDeadline)

	assert.Equal(t, models.RoleUser, resp.UserMessage.Role)
	assert.Equal(t, "hi there", resp.UserMessage.Content)
	assert.Equal(t, models.RoleAssistant, resp.AssistantMessage.Role)
	assert.Equal(t, "hello back", resp.AssistantMessage.Content)

	rows, err := store.History(context.Background(), "s1", 50)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "hi there", rows[0].Message)
	require.NotNil(t, rows[0].Response)
	assert.Equal(t, "hello back", *rows[0].Response)

	thread := svc.History(context.Background(), "s1")
	require.Len(t, thread, 2)
	assert.Equal(t, "hi there", thread[0].Content)
	assert.Equal(t, "hello back", thread[1].Content)
}

func TestChatService_EmptyMessage(t *testing.T) {
	svc := NewChatService(&fakeReplier{reply: "x"}, nil, nil, ChatOptions{}, logging.Nop())

	_, err := svc.Send(context.Background(), "s1", " \n\t ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestChatService_StoreFailuresAreSwallowed(t *testing.T) {
	svc := NewChatService(&fakeReplier{reply: "still here"}, failingStore{}, failingStore{}, ChatOptions{}, logging.Nop())

	resp, err := svc.Send(context.Background(), "s1", "hi")
	require.NoError(t, err)
	assert.Equal(t, "still here", resp.Reply)

	thread := svc.History(context.Background(), "s1")
	assert.NotNil(t, thread)
	assert.Empty(t, thread)
}

func TestNewSessionID(t *testing.T) {
	now := time.UnixMilli(1760000000000)
	id := NewSessionID(now)
	assert.Regexp(t, regexp.MustCompile(`^session_1760000000000_[0-9a-z]{9}$`), id)
	assert.NotEqual(t, id, NewSessionID(now))
}

func TestInteractionJobRoundTrip(t *testing.T) {
	job := NewInteractionJob(repository.NewInteraction("s1", "hi", strPtr("yo")))
	assert.False(t, job.EnqueuedAt.IsZero())

	payload, err := EncodeJob(job)
	require.NoError(t, err)
	decoded, err := DecodeJob(payload)
	require.NoError(t, err)
	assert.Equal(t, job.Interaction.ID, decoded.Interaction.ID)
	assert.Equal(t, "yo", *decoded.Interaction.Response)

	_, err = DecodeJob("not json")
	assert.Error(t, err)
}
