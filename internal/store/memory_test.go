package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	base := time.Date(2024, 7, 29, 10, 0, 0, 0, time.UTC)
	recs := []*Record{
		{ID: "b", UserID: "alice", Text: "second", CreatedAt: base.Add(time.Minute)},
		{ID: "a", UserID: "alice", Text: "first", CreatedAt: base},
		{ID: "c", UserID: "bob", Text: "other", CreatedAt: base},
	}
	for _, r := range recs {
		require.NoError(t, s.Save(ctx, r))
	}

	got, err := s.Get(ctx, "a", "alice")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Text)

	_, err = s.Get(ctx, "a", "bob")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "zzz", "alice")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := s.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	list, err = s.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemoryStore_Validation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	assert.Error(t, s.Save(ctx, nil))
	assert.Error(t, s.Save(ctx, &Record{UserID: "alice"}))
	assert.Error(t, s.Save(ctx, &Record{ID: "x"}))

	require.NoError(t, s.Save(ctx, &Record{ID: "x", UserID: "alice"}))
	assert.Error(t, s.Save(ctx, &Record{ID: "x", UserID: "alice"}), "duplicate ID")
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := &Record{ID: "x", UserID: "alice", Text: "original"}
	require.NoError(t, s.Save(ctx, rec))
	rec.Text = "mutated"

	got, err := s.Get(ctx, "x", "alice")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Text)

	got.Text = "mutated again"
	again, _ := s.Get(ctx, "x", "alice")
	assert.Equal(t, "original", again.Text)
}

func TestNewPostgresStore_RequiresURL(t *testing.T) {
	_, err := NewPostgresStore(context.Background(), "")
	assert.Error(t, err)
}
