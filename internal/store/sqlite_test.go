package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	s := newTestStore(t)

	entry := ChatEntry{
		Question:     "What is AI?",
		Answer:       "AI stands for Artificial Intelligence.",
		Persona:      "common",
		UserIdentity: "u1",
	}
	require.NoError(t, s.Append(context.Background(), &entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestAppendRejectsUnknownPersona(t *testing.T) {
	s := newTestStore(t)

	entry := ChatEntry{Question: "q", Answer: "a", Persona: "sales", UserIdentity: "u1"}
	err := s.Append(context.Background(), &entry)
	assert.Error(t, err)
	assert.Empty(t, entry.ID, "a failed insert must not hand out an ID")
	assert.True(t, entry.CreatedAt.IsZero(), "a failed insert must not stamp a creation time")
}

func TestAppendOnClosedStoreLeavesEntryUnmarked(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	entry := ChatEntry{Question: "q", Answer: "a", Persona: "common", UserIdentity: "u1"}
	err = s.Append(context.Background(), &entry)
	assert.Error(t, err)
	assert.Empty(t, entry.ID, "a failed insert must not hand out an ID")
	assert.True(t, entry.CreatedAt.IsZero(), "a failed insert must not stamp a creation time")
}

func TestListEntriesByUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	source := "manual.pdf"
	first := ChatEntry{Question: "q1", Answer: "a1", Persona: "common", UserIdentity: "u1"}
	second := ChatEntry{Question: "q2", Answer: "a2", Persona: "technical", UserIdentity: "u1", SelectedSource: &source}
	other := ChatEntry{Question: "q3", Answer: "a3", Persona: "customer", UserIdentity: "u2"}

	require.NoError(t, s.Append(ctx, &first))
	require.NoError(t, s.Append(ctx, &second))
	require.NoError(t, s.Append(ctx, &other))

	entries, err := s.ListEntriesByUser(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "u1", e.UserIdentity)
	}

	// Nullable source round-trips.
	var withSource *ChatEntry
	for i := range entries {
		if entries[i].Question == "q2" {
			withSource = &entries[i]
		}
	}
	require.NotNil(t, withSource)
	require.NotNil(t, withSource.SelectedSource)
	assert.Equal(t, "manual.pdf", *withSource.SelectedSource)
}

func TestListEntriesByUserHonorsLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		entry := ChatEntry{Question: "q", Answer: "a", Persona: "common", UserIdentity: "u1"}
		require.NoError(t, s.Append(ctx, &entry))
	}

	entries, err := s.ListEntriesByUser(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
