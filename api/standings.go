package api

import "context"

// Leaderboard returns the standings, best team first. Readable while
// logged out.
func (c *Client) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	if err := c.getJSON(ctx, "/api/tournament/leaderboard/", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Bracket returns the round-two bracket as matches ordered by stage.
// Readable while logged out.
func (c *Client) Bracket(ctx context.Context) ([]Match, error) {
	var matches []Match
	if err := c.getJSON(ctx, "/api/tournament/round-two-bracket/", &matches); err != nil {
		return nil, err
	}
	return matches, nil
}
