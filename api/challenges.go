package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Challenges lists the challenges involving the caller's teams.
func (c *Client) Challenges(ctx context.Context) ([]Challenge, error) {
	var challenges []Challenge
	if err := c.getJSON(ctx, "/api/tournament/challenges/", &challenges); err != nil {
		return nil, err
	}
	return challenges, nil
}

// CreateChallenge challenges another team, with an optional message.
func (c *Client) CreateChallenge(ctx context.Context, challengedTeam uuid.UUID, message string) (*Challenge, error) {
	body := map[string]any{"challenged_team": challengedTeam}
	if message != "" {
		body["message"] = message
	}
	var ch Challenge
	if err := c.sendJSON(ctx, http.MethodPost, "/api/tournament/challenges/", body, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// AcceptChallenge accepts a pending challenge, scheduling the match.
func (c *Client) AcceptChallenge(ctx context.Context, id uuid.UUID) (*Challenge, error) {
	return c.challengeAction(ctx, id, "accept")
}

// DeclineChallenge declines a pending challenge.
func (c *Client) DeclineChallenge(ctx context.Context, id uuid.UUID) (*Challenge, error) {
	return c.challengeAction(ctx, id, "decline")
}

// CancelChallenge withdraws a challenge the caller's team issued.
func (c *Client) CancelChallenge(ctx context.Context, id uuid.UUID) (*Challenge, error) {
	return c.challengeAction(ctx, id, "cancel")
}

func (c *Client) challengeAction(ctx context.Context, id uuid.UUID, action string) (*Challenge, error) {
	var ch Challenge
	path := fmt.Sprintf("/api/tournament/challenges/%s/%s/", id, action)
	if err := c.sendJSON(ctx, http.MethodPost, path, nil, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}
