// Package apierror describes failed API calls and turns them into
// user-facing messages.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidRequest marks a call that could not be built, so it was never
// sent.
var ErrInvalidRequest = errors.New("invalid request")

// Error is a failed API call. Status is 0 when no response was received, in
// which case Err holds the transport error. A response that arrived but could
// not be decoded keeps its status and carries the decode error in Err.
type Error struct {
	Method string
	Path   string
	Status int
	Body   []byte
	Err    error
}

func (e *Error) Error() string {
	if e.NoResponse() {
		return fmt.Sprintf("%s %s: no response: %v", e.Method, e.Path, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %d %s: %v", e.Method, e.Path, e.Status, http.StatusText(e.Status), e.Err)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NoResponse reports whether the request failed before a response arrived.
func (e *Error) NoResponse() bool {
	return e.Status == 0
}

// Detail returns the decoded "detail" field of the body, or nil.
func (e *Error) Detail() any {
	var body struct {
		Detail any `json:"detail"`
	}
	if len(e.Body) == 0 || json.Unmarshal(e.Body, &body) != nil {
		return nil
	}
	return body.Detail
}

// DetailCode returns detail.code for structured errors such as
// GOAL_LIMIT_REACHED or PREMIUM_EXPIRED, or "".
func (e *Error) DetailCode() string {
	obj, ok := e.Detail().(map[string]any)
	if !ok {
		return ""
	}
	code, _ := obj["code"].(string)
	return code
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsStatus reports whether err is an API error with the given status.
func IsStatus(err error, status int) bool {
	return StatusCode(err) == status
}

// DetailCode returns the structured detail code carried by err, or "".
func DetailCode(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.DetailCode()
	}
	return ""
}
