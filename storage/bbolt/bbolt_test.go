package bbolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorse/paddlebot/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tokens.db")
	s, err := NewStoreFromFile(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGet(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set(storage.KeyAccessToken, "A1"))
	require.NoError(t, s.Set(storage.KeyRefreshToken, "R1"))

	got, err := s.Get(storage.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "A1", got)

	got, err = s.Get(storage.KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "R1", got)
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(storage.KeyAccessToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSetOverwrites(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set(storage.KeyAccessToken, "A1"))
	require.NoError(t, s.Set(storage.KeyAccessToken, "A2"))

	got, err := s.Get(storage.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "A2", got)
}

func TestDeleteBothKeys(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set(storage.KeyAccessToken, "A1"))
	require.NoError(t, s.Set(storage.KeyRefreshToken, "R1"))
	require.NoError(t, s.Delete(storage.KeyAccessToken, storage.KeyRefreshToken))

	_, err := s.Get(storage.KeyAccessToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.Get(storage.KeyRefreshToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteMissingIsNoError(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Delete(storage.KeyAccessToken, storage.KeyRefreshToken))
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")

	s, err := NewStoreFromFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set(storage.KeyRefreshToken, "R1"))
	require.NoError(t, s.Close())

	s, err = NewStoreFromFile(path, nil)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(storage.KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "R1", got)
}
