// Package apitest runs an in-process fake of the tournament platform
// API. Tests point a session manager at Server.URL and control token
// validity, refresh outcomes and fixture data directly.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kmorse/paddlebot/api"
	"github.com/kmorse/paddlebot/session"
)

var signingKey = []byte("apitest-signing-key")

// Server is the fake platform. Exported fields are fixture data; seed
// them before issuing requests that read them. All methods are safe for
// concurrent use.
type Server struct {
	URL string

	srv *httptest.Server

	mu           sync.Mutex
	username     string
	password     string
	refreshToken string
	validAccess  map[string]bool
	nextAccess   []string
	refreshCalls int
	refreshDelay time.Duration
	failRefresh  bool
	lastRefresh  string

	user        session.User
	registered  map[string]bool
	teams       []api.Team
	submissions map[uuid.UUID][]api.Submission
	matches     []api.Match
	challenges  []api.Challenge
	leaderboard []api.LeaderboardEntry
	gameLogs    map[string]string
}

// New starts the fake platform with the given login credentials.
func New(username, password string) *Server {
	s := &Server{
		username:    username,
		password:    password,
		validAccess: make(map[string]bool),
		registered:  map[string]bool{username: true},
		submissions: make(map[uuid.UUID][]api.Submission),
		gameLogs:    make(map[string]string),
		user: session.User{
			ID:       1,
			Username: username,
			Email:    username + "@example.com",
		},
	}
	s.srv = httptest.NewServer(s.router())
	s.URL = s.srv.URL
	return s
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

// MintAccess returns a signed SimpleJWT-shaped access token for the
// fixture user, valid for an hour.
func (s *Server) MintAccess() string {
	claims := jwt.MapClaims{
		"token_type": "access",
		"user_id":    s.user.ID,
		"jti":        uuid.NewString(),
		"exp":        time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return token
}

// Seed installs a valid access/refresh pair, as if the user had logged
// in, and returns it.
func (s *Server) Seed(access, refresh string) (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validAccess[access] = true
	s.refreshToken = refresh
	return access, refresh
}

// RevokeAccess makes an access token start drawing 401s, as an expired
// token would.
func (s *Server) RevokeAccess(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validAccess[token] = false
}

// QueueAccess sets the tokens the refresh endpoint hands out, in order.
// When the queue is empty a fresh JWT is minted instead.
func (s *Server) QueueAccess(tokens ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAccess = append(s.nextAccess, tokens...)
}

// FailRefresh makes the refresh endpoint reject every request.
func (s *Server) FailRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRefresh = true
}

// SetRefreshDelay stalls the refresh endpoint, widening the window in
// which concurrent 401 handlers pile onto one flight.
func (s *Server) SetRefreshDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshDelay = d
}

// RefreshCalls reports how many requests reached the refresh endpoint.
func (s *Server) RefreshCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshCalls
}

// LastRefreshToken reports the refresh token presented by the most
// recent refresh request.
func (s *Server) LastRefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRefresh
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// authorized reports whether the request carries a currently valid
// bearer token.
func (s *Server) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validAccess[token]
}

// requireAuth guards endpoints that reject anonymous callers.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r) {
			writeDetail(w, http.StatusUnauthorized, "Given token not valid for any token type")
			return
		}
		next(w, r)
	}
}

func (s *Server) router() chi.Router {
	r := chi.NewRouter()

	r.Post("/api/token/", s.handleToken)
	r.Post("/api/token/refresh/", s.handleRefresh)
	r.Post("/api/accounts/register/", s.handleRegister)
	r.Get("/api/accounts/me/", s.requireAuth(s.handleMe))

	r.Route("/api/tournament", func(r chi.Router) {
		r.Get("/teams/", s.handleTeams)
		r.Post("/teams/", s.requireAuth(s.handleCreateTeam))
		r.Get("/teams/{teamID}/", s.handleTeam)
		r.Get("/teams/{teamID}/matches/", s.handleTeamMatches)
		r.Get("/teams/{teamID}/submissions/", s.requireAuth(s.handleSubmissions))
		r.Post("/teams/{teamID}/submissions/", s.requireAuth(s.handleCreateSubmission))
		r.Patch("/teams/{teamID}/submissions/{subID}/", s.requireAuth(s.handleUpdateSubmission))
		r.Patch("/teams/{teamID}/submissions/{subID}/set-active/", s.requireAuth(s.handleSetActive))
		r.Get("/matches/{matchID}/", s.requireAuth(s.handleMatch))
		r.Post("/matches/initiate-test/", s.requireAuth(s.handleInitiateTest))
		r.Get("/challenges/", s.requireAuth(s.handleChallenges))
		r.Post("/challenges/", s.requireAuth(s.handleCreateChallenge))
		r.Post("/challenges/{challengeID}/{action}/", s.requireAuth(s.handleChallengeAction))
		r.Get("/leaderboard/", s.handleLeaderboard)
		r.Get("/round-two-bracket/", s.handleBracket)
	})

	r.Get("/media/logs/{name}", s.handleGameLog)

	return r
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeDetail(w, http.StatusBadRequest, "malformed request")
		return
	}
	s.mu.Lock()
	ok := creds.Username == s.username && creds.Password == s.password
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}

	access := s.MintAccess()
	refresh := uuid.NewString()
	s.Seed(access, refresh)
	writeJSON(w, http.StatusOK, map[string]string{"access": access, "refresh": refresh})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "malformed request")
		return
	}

	s.mu.Lock()
	s.refreshCalls++
	s.lastRefresh = body.Refresh
	delay := s.refreshDelay
	fail := s.failRefresh || body.Refresh == "" || body.Refresh != s.refreshToken
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		writeDetail(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}

	s.mu.Lock()
	var access string
	if len(s.nextAccess) > 0 {
		access = s.nextAccess[0]
		s.nextAccess = s.nextAccess[1:]
	}
	s.mu.Unlock()
	if access == "" {
		access = s.MintAccess()
	}

	s.mu.Lock()
	// An explicit RevokeAccess wins over issuance, letting tests model
	// a freshly minted token that the API still rejects.
	if _, known := s.validAccess[access]; !known {
		s.validAccess[access] = true
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg api.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeDetail(w, http.StatusBadRequest, "malformed request")
		return
	}
	if reg.Password != reg.Password2 {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"password": {"Password fields didn't match."},
		})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registered[reg.Username] {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"username": {"A user with that username already exists."},
		})
		return
	}
	s.registered[reg.Username] = true
	writeJSON(w, http.StatusCreated, map[string]string{
		"username": reg.Username,
		"email":    reg.Email,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.user)
}
