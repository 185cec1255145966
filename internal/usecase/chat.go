package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"supportbot/internal/domain"
	"supportbot/internal/port"
)

// Reply is one answered chat message.
type Reply struct {
	SessionID string        `json:"session_id"`
	Text      string        `json:"response"`
	Result    domain.Result `json:"result"`
}

// ChatUseCase answers messages within a session and records both sides of
// the exchange. Retrieval never sees the history; only the answer step does.
type ChatUseCase struct {
	retriever    port.Retriever
	answer       *AnswerUseCase
	sessions     port.SessionStore
	historyLimit int
	logger       *zap.Logger
}

func NewChatUseCase(
	retriever port.Retriever,
	answer *AnswerUseCase,
	sessions port.SessionStore,
	historyLimit int,
	logger *zap.Logger,
) *ChatUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatUseCase{
		retriever:    retriever,
		answer:       answer,
		sessions:     sessions,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// Chat answers query in the given session.
func (u *ChatUseCase) Chat(ctx context.Context, sessionID, query string) (Reply, error) {
	history, err := u.sessions.History(ctx, sessionID, u.historyLimit)
	if err != nil {
		return Reply{}, fmt.Errorf("load history: %w", err)
	}

	result := u.retriever.Retrieve(ctx, query)
	text := u.answer.Answer(ctx, query, result, history)

	now := time.Now()
	if err := u.sessions.Append(ctx, sessionID, domain.Turn{Role: domain.RoleUser, Text: query, CreatedAt: now}); err != nil {
		return Reply{}, fmt.Errorf("record query: %w", err)
	}
	if err := u.sessions.Append(ctx, sessionID, domain.Turn{Role: domain.RoleAssistant, Text: text, Kind: result.Kind, CreatedAt: now}); err != nil {
		return Reply{}, fmt.Errorf("record answer: %w", err)
	}

	u.logger.Info("chat",
		zap.String("session_id", sessionID),
		zap.String("kind", string(result.Kind)),
	)

	return Reply{SessionID: sessionID, Text: text, Result: result}, nil
}

// History returns the whole log of a session.
func (u *ChatUseCase) History(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, domain.ErrSessionNotFound
	}
	turns, err := u.sessions.History(ctx, sessionID, 0)
	if err != nil {
		return nil, err
	}
	if len(turns) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return turns, nil
}
