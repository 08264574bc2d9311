package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeDesignAi/internal/design"
)

func TestInMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(time.Hour)

	saved, err := store.Save(ctx, Session{Style: "Modern", Messages: []Message{{Level: LevelInfo, Text: "hi"}}})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err := store.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Modern", got.Style)

	got.Messages[0].Text = "mutated"
	again, _ := store.Get(ctx, saved.ID)
	assert.Equal(t, "hi", again.Messages[0].Text, "callers get copies")

	require.NoError(t, store.Delete(ctx, saved.ID))
	_, err = store.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, saved.ID), ErrNotFound)
}

func TestInMemoryStoreExpiresIdleSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	store := NewInMemoryStore(2 * time.Hour)
	store.now = func() time.Time { return now }

	saved, err := store.Save(ctx, Session{})
	require.NoError(t, err)

	now = now.Add(119 * time.Minute)
	_, err = store.Get(ctx, saved.ID)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestInMemoryStoreEvictsOldestWhenFull(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	store := NewInMemoryStore(0)
	store.now = func() time.Time { return now }

	first, _ := store.Save(ctx, Session{})
	for i := 1; i < maxSessions; i++ {
		now = now.Add(time.Second)
		_, _ = store.Save(ctx, Session{})
	}
	now = now.Add(time.Second)
	_, _ = store.Save(ctx, Session{})

	assert.Equal(t, maxSessions, store.Len())
	_, err := store.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionReset(t *testing.T) {
	s := Session{
		Style:    "Old",
		Document: design.Document{Markdown: "# old", Source: design.SourceAPI},
		Image:    "https://example.com/a.png",
		Messages: []Message{{Level: LevelSuccess, Text: "done"}},
	}
	require.True(t, s.HasDocument())

	s.Reset("New")
	assert.Equal(t, "New", s.Style)
	assert.False(t, s.HasDocument())
	assert.True(t, s.Image.Empty())
	assert.Empty(t, s.Messages)

	s.AddMessage(LevelError, "oops")
	assert.Equal(t, []Message{{Level: LevelError, Text: "oops"}}, s.Messages)
}
