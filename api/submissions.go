package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
)

// Submissions lists a team's bot submissions, newest first.
func (c *Client) Submissions(ctx context.Context, teamID uuid.UUID) ([]Submission, error) {
	var subs []Submission
	if err := c.getJSON(ctx, fmt.Sprintf("/api/tournament/teams/%s/submissions/", teamID), &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// CreateSubmission uploads a bot script as a new submission. The
// platform stores the script as a file, so creation is a multipart
// upload with a code_file part; the filename must end in .py. Edits to
// an existing submission go through UpdateSubmission, which sends the
// source as JSON text instead.
func (c *Client) CreateSubmission(ctx context.Context, teamID uuid.UUID, filename string, code []byte) (*Submission, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("code_file", filename)
	if err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if _, err := part.Write(code); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}

	path := fmt.Sprintf("/api/tournament/teams/%s/submissions/", teamID)
	// bytes.Reader makes the body replayable, so the upload survives an
	// access-token refresh and retry.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var sub Submission
	if err := c.doJSON(req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpdateSubmission replaces the source of an existing submission.
func (c *Client) UpdateSubmission(ctx context.Context, teamID, subID uuid.UUID, codeText string) (*Submission, error) {
	body := map[string]string{"code_text": codeText}
	var sub Submission
	path := fmt.Sprintf("/api/tournament/teams/%s/submissions/%s/", teamID, subID)
	if err := c.sendJSON(ctx, http.MethodPatch, path, body, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// SetActiveSubmission marks one submission as the team's playing bot.
func (c *Client) SetActiveSubmission(ctx context.Context, teamID, subID uuid.UUID) (*Submission, error) {
	var sub Submission
	path := fmt.Sprintf("/api/tournament/teams/%s/submissions/%s/set-active/", teamID, subID)
	if err := c.sendJSON(ctx, http.MethodPatch, path, map[string]bool{"is_active": true}, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
