package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"portfolio-backend/internal/models"
	"portfolio-backend/internal/services"
)

type chatService interface {
	Send(ctx context.Context, sessionID, message string) (*models.ChatResponse, error)
	History(ctx context.Context, sessionID string) []models.DisplayMessage
	NewSessionID() string
}

type ChatHandler struct {
	chat   chatService
	logger *slog.Logger
}

func NewChatHandler(chat chatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, models.SessionResponse{SessionID: h.chat.NewSessionID()})
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionParam(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if fields := validationFields(req); fields != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	resp, err := h.chat.Send(r.Context(), sessionID, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", map[string]string{"message": "required"}, r))
			return
		}
		h.logger.Error("chat send failed", slog.String("session_id", sessionID), slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Something went wrong", r))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, models.HistoryResponse{Messages: h.chat.History(r.Context(), sessionID)})
}

func sessionParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := strings.TrimSpace(chi.URLParam(r, "sessionID"))
	if sessionID == "" || len(sessionID) > 128 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return "", false
	}
	return sessionID, true
}
