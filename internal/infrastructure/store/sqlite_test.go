package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyseas/pointtracker/internal/domain"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "data", "easyseas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_SetGetDelete(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "offers")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Set(ctx, "offers", `[{"id":"o1"}]`))
	got, err := s.Get(ctx, "offers")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"o1"}]`, got)

	require.NoError(t, s.Set(ctx, "offers", `[]`))
	got, err = s.Get(ctx, "offers")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)

	require.NoError(t, s.Delete(ctx, "offers"))
	_, err = s.Get(ctx, "offers")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLiteStore_Durable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "booked", `[{"id":"c1"}]`))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "booked")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"c1"}]`, got)
	assert.Equal(t, path, second.Path())
}

func TestSQLiteStore_ClosedReportsUnavailable(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	err = s.Set(context.Background(), "k", "v")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
