package config

import (
	"strconv"
	"strings"
	"time"
)

const (
	baseURLVar         = "QUESTPATH_BASE_URL"
	refreshPathVar     = "QUESTPATH_REFRESH_PATH"
	requestTimeoutVar  = "QUESTPATH_REQUEST_TIMEOUT"
	coalesceRefreshVar = "QUESTPATH_COALESCE_REFRESH"
	userAgentVar       = "QUESTPATH_USER_AGENT"
)

type Client struct {
	*layers
}

var _ ClientConfig = Client{}

// GetBaseURL returns the API root every request path is joined to (e.g. "https://questpath.app/api").
func (c Client) GetBaseURL() string {
	url := c.str(baseURLVar, func(v *FileValues) string { return v.BaseURL }, "http://localhost:8000/api")
	return strings.TrimRight(url, "/")
}

func (c Client) GetRefreshPath() string {
	return c.str(refreshPathVar, func(v *FileValues) string { return v.RefreshPath }, "/auth/refresh")
}

// GetRequestTimeout returns the per-request timeout. Zero leaves the transport default.
func (c Client) GetRequestTimeout() time.Duration {
	if c.forced.RequestTimeout > 0 {
		return c.forced.RequestTimeout
	}
	if v := GetEnv(requestTimeoutVar, ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	if c.file.RequestTimeout > 0 {
		return c.file.RequestTimeout
	}
	return 30 * time.Second
}

// GetCoalesceRefresh reports whether concurrent 401s share a single refresh call.
func (c Client) GetCoalesceRefresh() bool {
	if c.forced.CoalesceRefresh {
		return true
	}
	if v := GetEnv(coalesceRefreshVar, ""); v != "" {
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
	return c.file.CoalesceRefresh
}

func (c Client) GetUserAgent() string {
	return c.str(userAgentVar, func(v *FileValues) string { return v.UserAgent }, "questpath-cli")
}
