package apitest

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kmorse/paddlebot/api"
	"github.com/kmorse/paddlebot/session"
)

// SetUser replaces the fixture profile returned by the me endpoint.
func (s *Server) SetUser(user session.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// AddTeam seeds a team and returns it.
func (s *Server) AddTeam(name string) api.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	team := api.Team{
		ID:        uuid.New(),
		Name:      name,
		Creator:   s.username,
		CreatedAt: time.Now().UTC(),
	}
	s.teams = append(s.teams, team)
	return team
}

// AddMatch seeds a match and returns it.
func (s *Server) AddMatch(match api.Match) api.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}
	s.matches = append(s.matches, match)
	return match
}

// AddChallenge seeds a challenge and returns it.
func (s *Server) AddChallenge(ch api.Challenge) api.Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch.ID == uuid.Nil {
		ch.ID = uuid.New()
	}
	if ch.Status == "" {
		ch.Status = "PENDING"
		ch.StatusDisplay = "Pending"
	}
	s.challenges = append(s.challenges, ch)
	return ch
}

// SetLeaderboard seeds the standings.
func (s *Server) SetLeaderboard(entries []api.LeaderboardEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaderboard = entries
}

// SetGameLog serves the given CSV text at /media/logs/<name> and returns
// the path, suitable for a match's GameLogURL.
func (s *Server) SetGameLog(name, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameLogs[name] = text
	return "/media/logs/" + name
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]api.Team{}, s.teams...))
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name            string   `json:"name"`
		MemberUsernames []string `json:"member_usernames"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeDetail(w, http.StatusBadRequest, "malformed request")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, team := range s.teams {
		if team.Creator == s.username {
			writeDetail(w, http.StatusBadRequest, "You have already created a team. Users can only create one team.")
			return
		}
	}
	team := api.Team{
		ID:             uuid.New(),
		Name:           body.Name,
		Creator:        s.username,
		MembersDetails: body.MemberUsernames,
		CreatedAt:      time.Now().UTC(),
	}
	s.teams = append(s.teams, team)
	writeJSON(w, http.StatusCreated, team)
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "teamID"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, team := range s.teams {
		if team.ID == id {
			writeJSON(w, http.StatusOK, team)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Not found.")
}

func (s *Server) handleTeamMatches(w http.ResponseWriter, r *http.Request) {
	if _, err := uuid.Parse(chi.URLParam(r, "teamID")); err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	// The fake does not track membership; every seeded match belongs to
	// the team under test.
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]api.Match{}, s.matches...))
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "teamID"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]api.Submission{}, s.submissions[id]...))
}

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	teamID, err := uuid.Parse(chi.URLParam(r, "teamID"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	// Creation is a multipart upload; the script arrives as a file part,
	// not JSON.
	file, header, err := r.FormFile("code_file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"code_file": {"No file was submitted."},
		})
		return
	}
	defer file.Close()
	if !strings.HasSuffix(header.Filename, ".py") {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"code_file": {"Only Python files can be submitted."},
		})
		return
	}
	if _, err := io.Copy(io.Discard, file); err != nil {
		writeDetail(w, http.StatusBadRequest, "malformed upload")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := api.Submission{
		ID:                  uuid.New(),
		Team:                teamID,
		SubmittedBy:         s.user.ID,
		SubmittedByUsername: s.user.Username,
		CodeFile:            "/media/submissions/" + header.Filename,
		SubmittedAt:         time.Now().UTC(),
	}
	s.submissions[teamID] = append(s.submissions[teamID], sub)
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) handleUpdateSubmission(w http.ResponseWriter, r *http.Request) {
	teamID, subID, ok := submissionIDs(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.submissions[teamID] {
		if sub.ID == subID {
			s.submissions[teamID][i].SubmittedAt = time.Now().UTC()
			writeJSON(w, http.StatusOK, s.submissions[teamID][i])
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Not found.")
}

func (s *Server) handleSetActive(w http.ResponseWriter, r *http.Request) {
	teamID, subID, ok := submissionIDs(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var active *api.Submission
	for i := range s.submissions[teamID] {
		sub := &s.submissions[teamID][i]
		sub.IsActive = sub.ID == subID
		if sub.IsActive {
			active = sub
		}
	}
	if active == nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, *active)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.ID == id {
			writeJSON(w, http.StatusOK, m)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Not found.")
}

func (s *Server) handleInitiateTest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TeamID uuid.UUID `json:"team_id"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeDetail(w, http.StatusBadRequest, "malformed request")
		return
	}
	match := api.Match{
		ID:                 uuid.New(),
		MatchType:          "TEST",
		MatchTypeDisplay:   "Test Match",
		Status:             "PENDING",
		StatusDisplay:      "Pending",
		IsPlayer2SystemBot: true,
		Player2TeamName:    "System Bot",
		CreatedAt:          time.Now().UTC(),
	}
	s.mu.Lock()
	s.matches = append(s.matches, match)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, match)
}

func (s *Server) handleChallenges(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]api.Challenge{}, s.challenges...))
}

func (s *Server) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ChallengedTeam uuid.UUID `json:"challenged_team"`
		Message        string    `json:"message"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeDetail(w, http.StatusBadRequest, "malformed request")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := api.Challenge{
		ID:                    uuid.New(),
		ChallengedTeamDetails: api.TeamSummary{ID: body.ChallengedTeam},
		Message:               body.Message,
		Status:                "PENDING",
		StatusDisplay:         "Pending",
		CreatedAt:             time.Now().UTC(),
	}
	s.challenges = append(s.challenges, ch)
	writeJSON(w, http.StatusCreated, ch)
}

func (s *Server) handleChallengeAction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "challengeID"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	status, display, ok := challengeStatus(chi.URLParam(r, "action"))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.challenges {
		if s.challenges[i].ID != id {
			continue
		}
		if s.challenges[i].Status != "PENDING" {
			writeDetail(w, http.StatusBadRequest, "This challenge has already been resolved.")
			return
		}
		now := time.Now().UTC()
		s.challenges[i].Status = status
		s.challenges[i].StatusDisplay = display
		s.challenges[i].ResolvedAt = &now
		writeJSON(w, http.StatusOK, s.challenges[i])
		return
	}
	writeDetail(w, http.StatusNotFound, "Not found.")
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]api.LeaderboardEntry{}, s.leaderboard...))
}

func (s *Server) handleBracket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bracket := []api.Match{}
	for _, m := range s.matches {
		if m.MatchType == "ROUND_TWO" {
			bracket = append(bracket, m)
		}
	}
	writeJSON(w, http.StatusOK, bracket)
}

func (s *Server) handleGameLog(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	text, ok := s.gameLogs[chi.URLParam(r, "name")]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Write([]byte(text))
}

func challengeStatus(action string) (status, display string, ok bool) {
	switch action {
	case "accept":
		return "ACCEPTED", "Accepted", true
	case "decline":
		return "DECLINED", "Declined", true
	case "cancel":
		return "CANCELLED", "Cancelled", true
	}
	return "", "", false
}

func submissionIDs(r *http.Request) (teamID, subID uuid.UUID, ok bool) {
	teamID, err := uuid.Parse(chi.URLParam(r, "teamID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	subID, err = uuid.Parse(chi.URLParam(r, "subID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return teamID, subID, true
}
