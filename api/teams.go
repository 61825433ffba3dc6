package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Teams lists every registered team. Readable while logged out.
func (c *Client) Teams(ctx context.Context) ([]Team, error) {
	var teams []Team
	if err := c.getJSON(ctx, "/api/tournament/teams/", &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Team fetches one team by id.
func (c *Client) Team(ctx context.Context, id uuid.UUID) (*Team, error) {
	var team Team
	if err := c.getJSON(ctx, fmt.Sprintf("/api/tournament/teams/%s/", id), &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// CreateTeam registers a team. memberUsernames invites up to three
// additional members; the creator is added by the server.
func (c *Client) CreateTeam(ctx context.Context, name string, memberUsernames []string) (*Team, error) {
	body := map[string]any{"name": name}
	if len(memberUsernames) > 0 {
		body["member_usernames"] = memberUsernames
	}
	var team Team
	if err := c.sendJSON(ctx, http.MethodPost, "/api/tournament/teams/", body, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// TeamMatches lists the matches a team has played or has scheduled.
func (c *Client) TeamMatches(ctx context.Context, teamID uuid.UUID) ([]Match, error) {
	var matches []Match
	if err := c.getJSON(ctx, fmt.Sprintf("/api/tournament/teams/%s/matches/", teamID), &matches); err != nil {
		return nil, err
	}
	return matches, nil
}
