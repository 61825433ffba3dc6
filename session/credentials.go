package session

import (
	"errors"
	"fmt"

	"github.com/awnumar/memguard"

	"github.com/kmorse/paddlebot/storage"
)

// credentials is the in-memory half of the credential pair. The access
// token is used on every request and stays a plain string; the refresh
// token is long-lived and sits sealed in a memguard Enclave until a
// refresh needs it.
type credentials struct {
	access  string
	refresh *memguard.Enclave
}

func (c *credentials) setAccess(token string) {
	c.access = token
}

func (c *credentials) setRefresh(token string) {
	if token == "" {
		c.refresh = nil
		return
	}
	c.refresh = memguard.NewEnclave([]byte(token))
}

// refreshToken opens the enclave and returns a copy of the token, or ""
// when none is held.
func (c *credentials) refreshToken() (string, error) {
	if c.refresh == nil {
		return "", nil
	}
	buf, err := c.refresh.Open()
	if err != nil {
		return "", fmt.Errorf("opening refresh token enclave: %w", err)
	}
	defer buf.Destroy()
	return string(buf.Bytes()), nil
}

func (c *credentials) clear() {
	c.access = ""
	c.refresh = nil
}

// loadAccess returns the in-memory access token, falling back to the
// durable store. Startup restores from the store lazily, on first use.
func (m *Manager) loadAccess() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.creds.access != "" {
		return m.creds.access
	}
	token, err := m.store.Get(storage.KeyAccessToken)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.logger.Warn("reading access token from store", "err", err)
		}
		return ""
	}
	m.creds.access = token
	return token
}

// loadRefresh returns the refresh token from memory or the durable store.
func (m *Manager) loadRefresh() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, err := m.creds.refreshToken()
	if err != nil {
		m.logger.Warn("reading refresh token enclave", "err", err)
	}
	if token != "" {
		return token
	}
	token, err = m.store.Get(storage.KeyRefreshToken)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.logger.Warn("reading refresh token from store", "err", err)
		}
		return ""
	}
	m.creds.setRefresh(token)
	return token
}
