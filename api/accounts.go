package api

import (
	"context"
	"net/http"

	"github.com/kmorse/paddlebot/session"
)

// Register creates a new account. Validation failures come back as an
// *Error with per-field messages.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/accounts/register/", reg, nil)
}

// Me fetches the current user's profile through the session manager,
// which also caches it.
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	return c.session.UserDetails(ctx)
}
