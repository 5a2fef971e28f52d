package sessionrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ritwiksharan/event-recommendor/internal/domain/chat"
)

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	session := chat.Session{
		ID: "s-1",
		History: []chat.Turn{
			{Role: chat.RoleUser, Content: "hi"},
			{Role: chat.RoleAssistant, Content: "hello"},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Save(ctx, session))

	got, ok, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, session.History, got.History)
}

func TestMemoryRepositoryCopiesHistory(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	history := []chat.Turn{{Role: chat.RoleUser, Content: "original"}}
	require.NoError(t, repo.Save(ctx, chat.Session{ID: "s-2", History: history}))

	// Mutating the caller's slice must not leak into the stored session.
	history[0].Content = "mutated"
	got, ok, err := repo.Get(ctx, "s-2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "original", got.History[0].Content)

	// Mutating a returned copy must not change a later read either.
	got.History[0].Content = "mutated again"
	again, _, err := repo.Get(ctx, "s-2")
	require.NoError(t, err)
	require.Equal(t, "original", again.History[0].Content)
}

func TestMemoryRepositoryEmptyID(t *testing.T) {
	repo := NewMemoryRepository()
	_, ok, err := repo.Get(context.Background(), "")
	require.NoError(t, err)
	require.False(t, ok)
}
