package apierror

import (
	"errors"
	"net/http"
)

const (
	MsgNetwork     = "Network error. Please check your connection."
	MsgForbidden   = "You don't have permission for this action."
	MsgNotFound    = "Resource not found."
	MsgServer      = "Server error. Please try again later."
	MsgUnavailable = "Service temporarily unavailable."
	MsgValidation  = "Validation error"
	MsgOccurred    = "An error occurred"
	MsgGeneric     = "Something went wrong. Please try again."
)

// Classify maps a failed call to a single human-readable message. It never
// panics and always returns a non-empty string. Errors that are not *Error
// never reached the server and are reported as network failures, except
// requests that could not be built at all.
func Classify(err error) string {
	if err == nil || errors.Is(err, ErrInvalidRequest) {
		return MsgGeneric
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.NoResponse() {
		return MsgNetwork
	}

	switch apiErr.Status {
	case http.StatusForbidden:
		return MsgForbidden
	case http.StatusNotFound:
		return MsgNotFound
	case http.StatusInternalServerError:
		return MsgServer
	case http.StatusServiceUnavailable:
		return MsgUnavailable
	}

	if msg := detailMessage(apiErr.Detail()); msg != "" {
		return msg
	}
	return MsgGeneric
}

// detailMessage extracts a message from the FastAPI-style detail field:
// a plain string, a list of validation errors, or a structured object.
func detailMessage(detail any) string {
	switch d := detail.(type) {
	case string:
		return d
	case []any:
		if len(d) == 0 {
			return MsgValidation
		}
		first, _ := d[0].(map[string]any)
		return firstString(first, MsgValidation, "msg", "message")
	case map[string]any:
		return firstString(d, MsgOccurred, "message", "msg")
	}
	return ""
}

func firstString(obj map[string]any, fallback string, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}
