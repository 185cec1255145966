package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"supportbot/internal/domain"
	"supportbot/internal/usecase"
)

// ChatService is the chat behaviour the API exposes.
type ChatService interface {
	Chat(ctx context.Context, sessionID, query string) (usecase.Reply, error)
	History(ctx context.Context, sessionID string) ([]domain.Turn, error)
}

type ChatHandler struct {
	svc    ChatService
	logger *zap.Logger
}

func NewChatHandler(svc ChatService, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{svc: svc, logger: logger}
}

type chatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response  string            `json:"response"`
	Kind      domain.ResultKind `json:"kind"`
	SessionID string            `json:"session_id"`
}

// NewChatRouter serves the chat API.
func NewChatRouter(h *ChatHandler, allowedOrigins []string) http.Handler {
	r := newRouter(allowedOrigins)
	r.Post("/chat", h.HandleChat)
	r.Get("/sessions/{sessionID}", h.HandleHistory)
	return r
}

func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"}, h.logger)
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Query is required"}, h.logger)
		return
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	reply, err := h.svc.Chat(r.Context(), req.SessionID, req.Query)
	if err != nil {
		h.logger.Error("chat failed", zap.String("session_id", req.SessionID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()}, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:  reply.Text,
		Kind:      reply.Result.Kind,
		SessionID: reply.SessionID,
	}, h.logger)
}

func (h *ChatHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	turns, err := h.svc.History(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Session not found"}, h.logger)
			return
		}
		h.logger.Error("history failed", zap.String("session_id", sessionID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()}, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"turns":      turns,
	}, h.logger)
}
