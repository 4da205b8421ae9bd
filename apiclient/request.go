package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Request describes one API call. It is a value: options return modified
// copies, and the retry after a refresh reissues the same value.
type Request struct {
	Method string
	Path   string
	Body   any

	// Silent suppresses notifications; the error is still returned.
	Silent bool
	// SkipRefresh treats a 401 as final. Used by credential exchanges, where
	// a 401 means bad credentials rather than an expired token.
	SkipRefresh bool
}

type RequestOption func(Request) Request

// Silent marks a background call whose failures are expected and should not
// reach the user (e.g. the session probe at start-up).
func Silent() RequestOption {
	return func(r Request) Request {
		r.Silent = true
		return r
	}
}

func SkipRefresh() RequestOption {
	return func(r Request) Request {
		r.SkipRefresh = true
		return r
	}
}

// encodeBody returns the reader and content type for body: nil sends nothing,
// url.Values is form-encoded, anything else is JSON.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case url.Values:
		return strings.NewReader(b.Encode()), "application/x-www-form-urlencoded", nil
	case []byte:
		return bytes.NewReader(b), "application/json", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("encoding request body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}
}
