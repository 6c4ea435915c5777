package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaaziel-Polanco/bot-claro/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestReplaceAndListIntents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	intents := []domain.Intent{
		{ID: "b", Title: "B", Examples: []string{"uno", "dos"}, Response: "rb"},
		{ID: "a", Title: "A", Examples: []string{"tres"}, Response: "ra"},
	}
	require.NoError(t, s.ReplaceIntents(ctx, intents))

	got, err := s.ListIntents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Catalog order is insertion order, not id order.
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, []string{"uno", "dos"}, got[0].Examples)
	assert.Equal(t, "a", got[1].ID)

	n, err := s.CountIntents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Replace swaps the whole catalog.
	require.NoError(t, s.ReplaceIntents(ctx, intents[:1]))
	n, err = s.CountIntents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetIntent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceIntents(ctx, []domain.Intent{
		{ID: "billing_issue", Title: "Facturación", Examples: []string{"mi factura"}, Response: "ok"},
	}))

	intent, err := s.GetIntent(ctx, "billing_issue")
	require.NoError(t, err)
	assert.Equal(t, "Facturación", intent.Title)

	_, err = s.GetIntent(ctx, "nope")
	assert.ErrorIs(t, err, ErrIntentNotFound)
}

func TestGetOrCreateSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.GetOrCreateSession(ctx, "s1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "s1", first.SessionID)

	second, err := s.GetOrCreateSession(ctx, "s1", "u2")
	require.NoError(t, err)
	assert.Equal(t, "u1", second.UserID, "existing session is returned as-is")
}

func TestMessagesLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetOrCreateSession(ctx, "s1", "u1")
	require.NoError(t, err)

	base := time.Now()
	require.NoError(t, s.CreateMessage(ctx, &domain.Message{
		MessageID: "m1", SessionID: "s1", Role: domain.RoleUser, Content: "hola", CreatedAt: base,
	}))
	require.NoError(t, s.CreateMessage(ctx, &domain.Message{
		MessageID: "m2", SessionID: "s1", Role: domain.RoleBot, Content: "Procesando...", CreatedAt: base.Add(time.Millisecond),
	}))

	// Placeholder replaced in place once resolution completes.
	require.NoError(t, s.UpdateMessageContent(ctx, "m2", "respuesta final"))

	messages, err := s.GetMessages(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Equal(t, "hola", messages[0].Content)
	assert.Equal(t, "respuesta final", messages[1].Content)
}

func TestUpdateMissingMessage(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateMessageContent(context.Background(), "missing", "x")
	assert.Error(t, err)
}
