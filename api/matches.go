package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/kmorse/paddlebot/replay"
)

// Match fetches one match by id.
func (c *Client) Match(ctx context.Context, id uuid.UUID) (*Match, error) {
	var match Match
	if err := c.getJSON(ctx, fmt.Sprintf("/api/tournament/matches/%s/", id), &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// InitiateTestMatch queues a match between the team's active bot and the
// system bot.
func (c *Client) InitiateTestMatch(ctx context.Context, teamID uuid.UUID) (*Match, error) {
	body := map[string]uuid.UUID{"team_id": teamID}
	var match Match
	if err := c.sendJSON(ctx, http.MethodPost, "/api/tournament/matches/initiate-test/", body, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// GameLog downloads the raw game log named by a match's GameLogURL. The
// URL may be absolute or a path relative to the platform origin. A match
// without a log is replay.ErrLogUnavailable.
func (c *Client) GameLog(ctx context.Context, logURL string) (string, error) {
	if logURL == "" {
		return "", replay.ErrLogUnavailable
	}
	if logURL[0] == '/' {
		logURL = c.baseURL + logURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, logURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.session.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching game log: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("game log fetch failed with status %d", resp.StatusCode)
	}
	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading game log: %w", err)
	}
	return string(text), nil
}
