package api

import (
	"time"

	"github.com/google/uuid"
)

// Team is a registered tournament team.
type Team struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Creator        string    `json:"creator"`
	MembersDetails []string  `json:"members_details"`
	CreatedAt      time.Time `json:"created_at"`
}

// Submission is one uploaded bot script belonging to a team. Only the
// active submission plays matches.
type Submission struct {
	ID                  uuid.UUID `json:"id"`
	Team                uuid.UUID `json:"team"`
	TeamName            string    `json:"team_name"`
	SubmittedBy         int64     `json:"submitted_by"`
	SubmittedByUsername string    `json:"submitted_by_username"`
	CodeFile            string    `json:"code_file"`
	SubmittedAt         time.Time `json:"submitted_at"`
	IsActive            bool      `json:"is_active"`
	PlagiarismFlagged   bool      `json:"plagiarism_flagged"`
}

// TeamSummary is the nested id/name pair used inside matches and
// challenges.
type TeamSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Match is one played or scheduled bot match.
type Match struct {
	ID                 uuid.UUID    `json:"id"`
	MatchType          string       `json:"match_type"`
	MatchTypeDisplay   string       `json:"match_type_display"`
	Status             string       `json:"status"`
	StatusDisplay      string       `json:"status_display"`
	CreatedAt          time.Time    `json:"created_at"`
	PlayedAt           *time.Time   `json:"played_at"`
	Player1Submission  *uuid.UUID   `json:"player1_submission"`
	Player1TeamName    string       `json:"player1_team_name"`
	Player2Submission  *uuid.UUID   `json:"player2_submission"`
	IsPlayer2SystemBot bool         `json:"is_player2_system_bot"`
	Player2TeamName    string       `json:"player2_team_name"`
	Player1Score       int          `json:"player1_score"`
	Player2Score       int          `json:"player2_score"`
	WinningTeam        *uuid.UUID   `json:"winning_team"`
	RoundStage         *int         `json:"round_stage"`
	WinningTeamDetails *TeamSummary `json:"winning_team_details"`
	GameLogURL         string       `json:"game_log_url"`
}

// Completed reports whether the match has a final result and, usually, a
// game log to replay.
func (m *Match) Completed() bool {
	return m.Status == "COMPLETED" || m.StatusDisplay == "Completed"
}

// Challenge is a head-to-head match request between two teams.
type Challenge struct {
	ID                    uuid.UUID   `json:"id"`
	ChallengerTeamDetails TeamSummary `json:"challenger_team_details"`
	ChallengedTeamDetails TeamSummary `json:"challenged_team_details"`
	Message               string      `json:"message"`
	Status                string      `json:"status"`
	StatusDisplay         string      `json:"status_display"`
	CreatedAt             time.Time   `json:"created_at"`
	ResolvedAt            *time.Time  `json:"resolved_at"`
	MatchPlayedID         *uuid.UUID  `json:"match_played_id"`
}

// LeaderboardEntry is one team's standing, ordered by the server from
// best to worst.
type LeaderboardEntry struct {
	ID            uuid.UUID `json:"id"`
	Team          uuid.UUID `json:"team"`
	TeamName      string    `json:"team_name"`
	Score         int       `json:"score"`
	MatchesPlayed int       `json:"matches_played"`
	MatchesWon    int       `json:"matches_won"`
	LastUpdated   time.Time `json:"last_updated"`
}

// Registration is the payload for creating an account. Password2 must
// repeat Password; the server validates the match.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}
