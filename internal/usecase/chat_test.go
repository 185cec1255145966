package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportbot/internal/adapter/memstore"
	"supportbot/internal/domain"
)

type historyRecordingResponder struct {
	seen [][]domain.Turn
}

func (r *historyRecordingResponder) Respond(_ context.Context, _ string, result domain.Result, history []domain.Turn) (string, error) {
	r.seen = append(r.seen, history)
	return "phrased " + string(result.Kind), nil
}

func (r *historyRecordingResponder) ModelName() string { return "recorder" }

func TestChat_RecordsTurnsAndPassesHistory(t *testing.T) {
	ctx := context.Background()
	sessions := memstore.NewSessionStore()
	responder := &historyRecordingResponder{}
	uc := NewChatUseCase(newTestRetrieveUseCase(t, defaultOrders()), NewAnswerUseCase(responder, nil), sessions, 10, nil)

	reply, err := uc.Chat(ctx, "s1", "shipping")
	require.NoError(t, err)
	assert.Equal(t, "s1", reply.SessionID)
	assert.Equal(t, domain.KindFAQMatches, reply.Result.Kind)
	assert.Equal(t, "phrased faq_matches", reply.Text)

	reply, err = uc.Chat(ctx, "s1", "ORD12345")
	require.NoError(t, err)
	assert.Equal(t, domain.KindOrderStatus, reply.Result.Kind)

	require.Len(t, responder.seen, 2)
	assert.Empty(t, responder.seen[0])
	require.Len(t, responder.seen[1], 2)
	assert.Equal(t, domain.RoleUser, responder.seen[1][0].Role)
	assert.Equal(t, "shipping", responder.seen[1][0].Text)

	history, err := uc.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, domain.KindOrderStatus, history[3].Kind)
}

func TestChat_HistoryDoesNotAffectRetrieval(t *testing.T) {
	ctx := context.Background()
	uc := NewChatUseCase(newTestRetrieveUseCase(t, defaultOrders()), NewAnswerUseCase(nil, nil), memstore.NewSessionStore(), 10, nil)

	first, err := uc.Chat(ctx, "s1", "jeans")
	require.NoError(t, err)
	assert.Equal(t, domain.KindClarificationNeeded, first.Result.Kind)

	// answering "men" does not resolve the earlier clarification
	second, err := uc.Chat(ctx, "s1", "men")
	require.NoError(t, err)
	fresh, err := uc.Chat(ctx, "s2", "men")
	require.NoError(t, err)
	assert.Equal(t, fresh.Result, second.Result)
}

func TestChat_HistoryLimit(t *testing.T) {
	ctx := context.Background()
	responder := &historyRecordingResponder{}
	uc := NewChatUseCase(newTestRetrieveUseCase(t, defaultOrders()), NewAnswerUseCase(responder, nil), memstore.NewSessionStore(), 3, nil)

	for i := 0; i < 3; i++ {
		_, err := uc.Chat(ctx, "s1", "shipping")
		require.NoError(t, err)
	}
	assert.Len(t, responder.seen[2], 3)
}

func TestChat_UnknownSession(t *testing.T) {
	uc := NewChatUseCase(newTestRetrieveUseCase(t, nil), NewAnswerUseCase(nil, nil), memstore.NewSessionStore(), 10, nil)

	_, err := uc.History(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
	_, err = uc.History(context.Background(), " ")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}

type failingSessions struct{ *memstore.SessionStore }

func (failingSessions) History(context.Context, string, int) ([]domain.Turn, error) {
	return nil, errors.New("db down")
}

func TestChat_SessionStoreError(t *testing.T) {
	uc := NewChatUseCase(newTestRetrieveUseCase(t, nil), NewAnswerUseCase(nil, nil), failingSessions{memstore.NewSessionStore()}, 10, nil)

	_, err := uc.Chat(context.Background(), "s1", "shipping")
	assert.Error(t, err)
}
