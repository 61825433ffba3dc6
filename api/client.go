// Package api is the typed client for the tournament platform's REST
// API. Every method is a thin wrapper over the session manager's
// authenticated fetch; authentication retries and refresh are handled
// there, error decoding here.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kmorse/paddlebot/session"
)

// Client calls the platform API through an authenticated session.
type Client struct {
	session *session.Manager
	baseURL string
}

// NewClient creates a Client on top of the given session manager.
func NewClient(sess *session.Manager) *Client {
	return &Client{
		session: sess,
		baseURL: sess.BaseURL(),
	}
}

// Session exposes the underlying session manager.
func (c *Client) Session() *session.Manager {
	return c.session
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

// getJSON performs an authenticated GET and decodes the 200 body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

// sendJSON performs an authenticated request with a JSON body and decodes
// the 2xx response into out (ignored when out is nil).
func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	req, err := session.NewJSONRequest(ctx, method, c.url(path), body)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.session.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, decodeError(resp))
	}
	defer resp.Body.Close()
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
