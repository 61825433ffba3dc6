package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorse/paddlebot/storage"
)

func TestMemoryStore(t *testing.T) {
	s := NewStore()

	_, err := s.Get(storage.KeyAccessToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(storage.KeyAccessToken, "A1"))
	require.NoError(t, s.Set(storage.KeyRefreshToken, "R1"))

	got, err := s.Get(storage.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "A1", got)

	require.NoError(t, s.Delete(storage.KeyAccessToken, storage.KeyRefreshToken))

	_, err = s.Get(storage.KeyRefreshToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Set(storage.KeyAccessToken, "A")
			_, _ = s.Get(storage.KeyAccessToken)
			_ = s.Delete(storage.KeyAccessToken)
		}()
	}
	wg.Wait()
}
