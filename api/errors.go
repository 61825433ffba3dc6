package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

// Error is a non-2xx API response: a detail message and, for validation
// failures, per-field messages in the platform's field→messages shape.
type Error struct {
	Status int
	Detail string
	Fields map[string][]string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Detail != "" {
		b.WriteString(e.Detail)
	} else {
		fmt.Fprintf(&b, "request failed with status %d", e.Status)
	}
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "; %s: %s", name, strings.Join(e.Fields[name], ", "))
		}
	}
	return b.String()
}

// IsValidation reports whether the error carries field-level messages.
func (e *Error) IsValidation() bool {
	return len(e.Fields) > 0
}

// decodeError turns a non-2xx response into an *Error, consuming the
// body. The platform reports either {"detail": "..."} or a field→messages
// map; anything unparseable keeps the raw body as the detail.
func decodeError(resp *http.Response) error {
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &Error{Status: resp.StatusCode}
	if resp.StatusCode == http.StatusNotFound {
		apiErr.Detail = "not found"
		return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Detail = strings.TrimSpace(string(raw))
		return apiErr
	}
	for name, msg := range body {
		if name == "detail" {
			var detail string
			if json.Unmarshal(msg, &detail) == nil {
				apiErr.Detail = detail
				continue
			}
		}
		var messages []string
		if json.Unmarshal(msg, &messages) == nil {
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[name] = messages
			continue
		}
		var message string
		if json.Unmarshal(msg, &message) == nil {
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[name] = []string{message}
		}
	}
	return apiErr
}
