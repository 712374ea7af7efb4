package services

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-backend/internal/models"
)

const (
	DefaultHistoryLimit = 50
	sessionSuffixLen    = 9
	base36              = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var ErrEmptyMessage = errors.New("message is empty")

// InteractionRecorder persists one exchange.
type InteractionRecorder interface {
	Record(ctx context.Context, sessionID, message string, response *string) error
}

// HistoryLoader returns up to limit interactions for a session, newest-first.
type HistoryLoader interface {
	History(ctx context.Context, sessionID string, limit int) ([]models.ChatInteraction, error)
}

// Replier produces assistant text. It must not fail.
type Replier interface {
	Reply(ctx context.Context, message, contextBlock string) string
}

type ChatOptions struct {
	ContextBlock   string
	HistoryLimit   int
	RequestTimeout time.Duration
}

type ChatService struct {
	replier  Replier
	recorder InteractionRecorder
	history  HistoryLoader
	opts     ChatOptions
	logger   *slog.Logger
	now      func() time.Time
}

func NewChatService(replier Replier, recorder InteractionRecorder, history HistoryLoader, opts ChatOptions, logger *slog.Logger) *ChatService {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	return &ChatService{
		replier:  replier,
		recorder: recorder,
		history:  history,
		opts:     opts,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Send answers one visitor message and records the exchange. Persistence
// failures are logged only; the reply is returned either way.
func (s *ChatService) Send(ctx context.Context, sessionID, message string) (*models.ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	replyCtx := ctx
	if s.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		replyCtx, cancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
	}

	reply := s.replier.Reply(replyCtx, message, s.opts.ContextBlock)

	if s.recorder != nil {
		// The reply deadline may have expired; recording gets its own budget.
		recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.recorder.Record(recCtx, sessionID, message, &reply); err != nil {
			s.logger.Error("failed to record chat interaction",
				slog.String("session_id", sessionID),
				slog.Any("error", err),
			)
		}
	}

	now := s.now()
	turnID := uuid.NewString()
	return &models.ChatResponse{
		Reply: reply,
		UserMessage: models.DisplayMessage{
			ID:        "user_" + turnID,
			Role:      models.RoleUser,
			Content:   message,
			Timestamp: now,
		},
		AssistantMessage: models.DisplayMessage{
			ID:        "assistant_" + turnID,
			Role:      models.RoleAssistant,
			Content:   reply,
			Timestamp: now,
		},
	}, nil
}

// History returns the session thread oldest-first. Load errors yield an
// empty thread.
func (s *ChatService) History(ctx context.Context, sessionID string) []models.DisplayMessage {
	if s.history == nil {
		return []models.DisplayMessage{}
	}
	rows, err := s.history.History(ctx, sessionID, s.opts.HistoryLimit)
	if err != nil {
		s.logger.Error("failed to load chat history",
			slog.String("session_id", sessionID),
			slog.Any("error", err),
		)
		return []models.DisplayMessage{}
	}
	return Reconstruct(rows)
}

// NewSessionID returns session_<unixMillis>_<9 base36 chars>.
func (s *ChatService) NewSessionID() string {
	return NewSessionID(s.now())
}

func NewSessionID(now time.Time) string {
	var b strings.Builder
	b.WriteString("session_")
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('_')
	for i := 0; i < sessionSuffixLen; i++ {
		b.WriteByte(base36[rand.Intn(len(base36))])
	}
	return b.String()
}
