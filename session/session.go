// Package session owns the client's credential lifecycle: the
// access/refresh token pair, the authenticated-request primitive with
// single-flight token refresh, and the lazily fetched user profile.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kmorse/paddlebot/storage"
)

// ErrNoCredentials is returned by Do when no access token is available
// and the anonymous fallback policy is disabled.
var ErrNoCredentials = errors.New("no access token available")

// ErrNoRefreshToken is returned when a refresh is attempted without a
// refresh token. The session is logged out before it is returned.
var ErrNoRefreshToken = errors.New("no refresh token available")

// ErrRefreshRejected is returned when the platform refuses to mint a new
// access token. The session is logged out before it is returned.
var ErrRefreshRejected = errors.New("token refresh rejected")

// TeamRef is the team summary embedded in a user profile.
type TeamRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// User is the profile returned by the current-user endpoint.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Teams     []TeamRef `json:"teams"`
}

// Manager owns the credential pair and the user session. All methods are
// safe for concurrent use; overlapping authenticated requests that each
// hit a 401 share a single refresh.
type Manager struct {
	baseURL    string
	store      storage.TokenStore
	httpClient *http.Client
	logger     *slog.Logger

	anonFallback bool
	logoutHook   func()

	flight flightGroup

	mu    sync.Mutex
	creds credentials
	user  *User
}

// Option configures a Manager.
type Option func(*Manager)

// WithHTTPClient sets the underlying HTTP client. Defaults to
// http.DefaultClient; timeouts are whatever that client imposes.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.httpClient = c }
}

// WithLogger sets the structured logger. If not set, a default JSON
// logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithAnonymousFallback controls what Do does when no access token is
// held: send the request without credentials (true, the default — public
// read endpoints keep working while logged out) or fail fast with
// ErrNoCredentials (false).
func WithAnonymousFallback(enabled bool) Option {
	return func(m *Manager) { m.anonFallback = enabled }
}

// WithLogoutHook registers a callback invoked at the end of every
// Logout, including forced logout after a failed refresh. A UI would
// navigate to its login entry point here.
func WithLogoutHook(fn func()) Option {
	return func(m *Manager) { m.logoutHook = fn }
}

// New creates a Manager talking to the platform at baseURL and persisting
// the credential pair in store.
func New(baseURL string, store storage.TokenStore, opts ...Option) *Manager {
	m := &Manager{
		baseURL:      strings.TrimRight(baseURL, "/"),
		store:        store,
		anonFallback: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.httpClient == nil {
		m.httpClient = http.DefaultClient
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return m
}

// BaseURL returns the platform origin this manager talks to.
func (m *Manager) BaseURL() string {
	return m.baseURL
}

// Login stores a freshly issued token pair and fetches the user profile.
// A profile fetch failure is logged but does not roll back the tokens.
func (m *Manager) Login(ctx context.Context, access, refresh string) error {
	m.mu.Lock()
	m.creds.setAccess(access)
	m.creds.setRefresh(refresh)
	m.mu.Unlock()

	if err := m.store.Set(storage.KeyAccessToken, access); err != nil {
		return fmt.Errorf("persisting access token: %w", err)
	}
	if err := m.store.Set(storage.KeyRefreshToken, refresh); err != nil {
		return fmt.Errorf("persisting refresh token: %w", err)
	}

	if _, err := m.UserDetails(ctx); err != nil {
		m.logger.Warn("fetching user details after login", "err", err)
	}
	return nil
}

// LoginWithPassword authenticates against the platform's token endpoint
// and stores the resulting pair.
func (m *Manager) LoginWithPassword(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/api/token/", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("authentication failed: %s", responseDetail(resp))
	}

	var pair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return fmt.Errorf("decoding token response: %w", err)
	}
	return m.Login(ctx, pair.Access, pair.Refresh)
}

// Logout clears the credential pair and user session from memory and
// durable storage, and abandons any in-flight refresh. Idempotent.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.creds.clear()
	m.user = nil
	m.mu.Unlock()

	m.flight.abandon()

	err := m.store.Delete(storage.KeyAccessToken, storage.KeyRefreshToken)
	if err != nil {
		err = fmt.Errorf("clearing stored tokens: %w", err)
	}
	if m.logoutHook != nil {
		m.logoutHook()
	}
	return err
}

// NewJSONRequest builds a request with the value serialized as a JSON
// body and a matching content type. Binary or multipart payloads should
// be built with http.NewRequestWithContext directly; Do leaves their
// bodies and headers untouched.
func NewJSONRequest(ctx context.Context, method, url string, v any) (*http.Request, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// Do performs the request with a bearer access token attached. On a 401
// it refreshes the access token — joining the refresh already in flight
// if there is one — and retries the original request exactly once with
// the new token, returning that response whatever its status. A refresh
// failure has already logged the session out by the time it is returned.
//
// With no token available the request is sent unauthenticated, or fails
// with ErrNoCredentials, per the anonymous fallback policy.
func (m *Manager) Do(req *http.Request) (*http.Response, error) {
	token := m.loadAccess()
	if token == "" {
		if m.anonFallback {
			return m.httpClient.Do(req)
		}
		return nil, ErrNoCredentials
	}

	resp, err := m.send(req, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// The original request always settles before the retry is issued;
	// they never race.
	if req.Body != nil && req.GetBody == nil {
		// The body cannot be replayed, so the retry cannot be issued.
		return resp, nil
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	f := m.flight.getOrStart(func() (string, error) {
		// The refresh outlives the caller that started it: other
		// awaiters still need its result if this caller goes away.
		return m.refresh(context.WithoutCancel(req.Context()))
	})
	newToken, err := f.wait(req.Context())
	if err != nil {
		return nil, fmt.Errorf("refreshing access token: %w", err)
	}
	return m.send(req, newToken)
}

// send issues a clone of req with the bearer token attached, leaving the
// caller's request reusable for the retry.
func (m *Manager) send(req *http.Request, token string) (*http.Response, error) {
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("reusing request body: %w", err)
		}
		r.Body = body
	}
	r.Header.Set("Authorization", "Bearer "+token)
	return m.httpClient.Do(r)
}

// refresh redeems the refresh token for a new access token. Any failure
// is terminal for the session: a forced logout happens before the error
// is propagated to every awaiter.
func (m *Manager) refresh(ctx context.Context) (string, error) {
	refreshToken := m.loadRefresh()
	if refreshToken == "" {
		m.forceLogout("no refresh token")
		return "", ErrNoRefreshToken
	}

	body, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/api/token/refresh/", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.forceLogout("refresh transport failure")
		return "", fmt.Errorf("refresh request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail := responseDetail(resp)
		m.forceLogout("refresh rejected")
		return "", fmt.Errorf("%w: %s", ErrRefreshRejected, detail)
	}

	var out struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		m.forceLogout("refresh response malformed")
		return "", fmt.Errorf("decoding refresh response: %w", err)
	}

	m.mu.Lock()
	m.creds.setAccess(out.Access)
	m.mu.Unlock()
	if err := m.store.Set(storage.KeyAccessToken, out.Access); err != nil {
		m.logger.Warn("persisting refreshed access token", "err", err)
	}
	return out.Access, nil
}

func (m *Manager) forceLogout(reason string) {
	m.logger.Info("logging out", "reason", reason)
	if err := m.Logout(); err != nil {
		m.logger.Warn("forced logout", "err", err)
	}
}

// UserDetails fetches the current user's profile and caches it. A non-401
// API failure clears the cached user but keeps the tokens; a transport
// error leaves the prior state untouched.
func (m *Manager) UserDetails(ctx context.Context) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/api/accounts/me/", nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.Do(req)
	if err != nil {
		m.logger.Warn("fetching user details", "err", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode != http.StatusUnauthorized {
			m.mu.Lock()
			m.user = nil
			m.mu.Unlock()
		}
		return nil, fmt.Errorf("user details fetch failed with status %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding user details: %w", err)
	}
	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
	return &user, nil
}

// User returns the cached profile, or nil while it has not been fetched
// or after logout.
func (m *Manager) User() *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// responseDetail extracts the API's "detail" message from an error body,
// falling back to the HTTP status.
func responseDetail(resp *http.Response) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return resp.Status
}
