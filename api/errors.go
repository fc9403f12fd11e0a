package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
)

const maxErrorBody = 1 << 20

// APIError is a non-2xx response from the remote service. Validation
// failures carry per-field messages; most other failures carry a top-level
// detail string.
type APIError struct {
	Status int
	Detail string
	Fields map[string][]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message())
}

// Message returns a human-readable description: the structured detail field
// when present, else the first field-level validation error (fields visited
// in sorted order so the result is deterministic), else the status text.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}

	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		if msgs := e.Fields[field]; len(msgs) > 0 && msgs[0] != "" {
			return msgs[0]
		}
	}
	return http.StatusText(e.Status)
}

// IsValidation reports whether the error carries field-level messages.
func (e *APIError) IsValidation() bool {
	return e.Status >= 400 && e.Status < 500 && len(e.Fields) > 0
}

// decodeAPIError reads a failure body of the shape {"detail": "..."} or
// {"field": ["msg", ...], ...} (field values may also be plain strings).
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}

	for key, value := range body {
		if key == "detail" {
			_ = json.Unmarshal(value, &apiErr.Detail)
			continue
		}

		var msgs []string
		if err := json.Unmarshal(value, &msgs); err != nil {
			var single string
			if err := json.Unmarshal(value, &single); err != nil {
				continue
			}
			msgs = []string{single}
		}
		if apiErr.Fields == nil {
			apiErr.Fields = make(map[string][]string)
		}
		apiErr.Fields[key] = msgs
	}
	return apiErr
}
