package gallery

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "gallery.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAddGetDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec, err := s.Add(ctx, "ceph.png", "image/png", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "ceph.png", got.Name)
	assert.Equal(t, []byte{1, 2, 3}, got.Data)
	assert.Equal(t, "image/png", got.Type)

	name, data, err := s.Fetch(ctx, Handle(rec.ID))
	require.NoError(t, err)
	assert.Equal(t, "ceph.png", name)
	assert.Equal(t, []byte{1, 2, 3}, data)

	require.NoError(t, s.Delete(ctx, rec.ID))
	_, err = s.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, rec.ID), ErrNotFound)
}

func TestAddValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "notes.txt", "text/plain", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = s.Add(ctx, "empty.png", "image/png", nil)
	assert.ErrorIs(t, err, ErrEmpty)

	for _, mime := range AllowedTypes {
		assert.True(t, Allowed(mime))
	}
}

func TestListNewestFirstWithoutData(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	first, err := s.Add(ctx, "a.png", "image/png", []byte{1})
	require.NoError(t, err)
	// Same millisecond: the id is bumped to stay unique.
	second, err := s.Add(ctx, "b.jpg", "image/jpeg", []byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, first.ID+1, second.ID)

	clock = clock.Add(time.Minute)
	third, err := s.Add(ctx, "c.gif", "image/gif", []byte{1, 2, 3})
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, third.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, first.ID, list[2].ID)
	assert.Equal(t, 3, list[0].Size)
	assert.Equal(t, "c.gif", list[0].Name)
}

func TestFetchBadHandle(t *testing.T) {
	s := openTestStore(t)
	_, _, err := s.Fetch(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("mongo", "", zerolog.Nop())
	assert.Error(t, err)
}
