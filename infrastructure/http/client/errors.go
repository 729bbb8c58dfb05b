package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is a non-2xx answer from the backend. Detail holds the
// server-provided explanation when the body carried one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
}

// validationIssue is one item of a 422 detail list.
type validationIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{StatusCode: status, Detail: decodeDetail(body)}
}

// decodeDetail extracts the "detail" field, which is either a string or a
// list of validation issues.
func decodeDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var issues []validationIssue
	if err := json.Unmarshal(envelope.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			if issue.Msg == "" {
				continue
			}
			if field := issueField(issue.Loc); field != "" {
				msgs = append(msgs, field+": "+issue.Msg)
			} else {
				msgs = append(msgs, issue.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func issueField(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok {
		return s
	}
	return ""
}

// DetailOrFallback returns the server detail carried by err, or fallback
// when err is not an APIError or the server gave no detail.
func DetailOrFallback(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
