package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-questpath-client/apierror"
	qperrors "github.com/jrsteele09/go-questpath-client/internal/errors"
	"github.com/jrsteele09/go-questpath-client/model"
	"github.com/jrsteele09/go-questpath-client/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Do sends the request described by method, path and body, and decodes a
// successful response into out (nil discards it; *json.RawMessage keeps it
// verbatim). Failures are returned as *apierror.Error so callers can branch
// on status; unless the call is silent or the failure is a 401, the
// classified message is also passed to the Notifier.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	req := Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		req = opt(req)
	}
	err := c.execute(ctx, req, 0, out)
	if err != nil {
		c.report(ctx, req, err)
	}
	return err
}

// execute runs one attempt. A 401 on attempt 0 triggers one refresh; the
// reissued request runs as attempt 1 and its outcome is final.
func (c *Client) execute(ctx context.Context, req Request, attempt int, out any) error {
	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := decode(resp.Body, out); err != nil {
			return &apierror.Error{Method: req.Method, Path: req.Path, Status: resp.StatusCode, Err: err}
		}
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &apierror.Error{Method: req.Method, Path: req.Path, Status: resp.StatusCode, Body: body}

	if resp.StatusCode != http.StatusUnauthorized || attempt > 0 || req.SkipRefresh {
		return apiErr
	}
	if _, err := c.coordinator.Refresh(ctx); err != nil {
		log.Debug().Err(err).Str("path", req.Path).Msg("Refresh failed, returning original 401")
		return apiErr
	}
	log.Debug().Str("method", req.Method).Str("path", req.Path).Msg("Retrying with refreshed token")
	return c.execute(ctx, req, attempt+1, out)
}

func (c *Client) send(ctx context.Context, req Request) (*http.Response, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", apierror.ErrInvalidRequest, req.Method, req.Path, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.url(req.Path), body)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", apierror.ErrInvalidRequest, err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	requestID := uuid.NewString()
	httpReq.Header.Set(requestIDHeader, requestID)

	tok, err := c.tokens.Get()
	switch {
	case err == nil:
		tok.SetAuthHeader(httpReq)
	case !errors.Is(err, qperrors.ErrNoToken):
		log.Warn().Err(err).Msg("Failed to read token store, sending unauthenticated")
	}

	log.Debug().Str("method", req.Method).Str("path", req.Path).Str("request_id", requestID).Msg("API request")
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &apierror.Error{Method: req.Method, Path: req.Path, Err: err}
	}
	return resp, nil
}

// report forwards the classified message to the notifier. Authentication
// failures are never shown: the session layer reports them as logged out.
func (c *Client) report(ctx context.Context, req Request, err error) {
	if req.Silent || ctx.Err() != nil || apierror.IsStatus(err, http.StatusUnauthorized) {
		return
	}
	log.Debug().Err(err).Msg("API request failed")
	c.notifier.Notify(apierror.Classify(err))
}

// refreshToken calls the refresh endpoint. It relies on the cookie jar and
// deliberately carries no bearer token.
func (c *Client) refreshToken(ctx context.Context) (*oauth2.Token, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(c.refreshPath), nil)
	if err != nil {
		return nil, fmt.Errorf("building refresh request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &apierror.Error{Method: http.MethodPost, Path: c.refreshPath, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &apierror.Error{Method: http.MethodPost, Path: c.refreshPath, Status: resp.StatusCode, Body: body}
	}
	var tr model.TokenResponse
	if err := decode(resp.Body, &tr); err != nil {
		return nil, &apierror.Error{Method: http.MethodPost, Path: c.refreshPath, Status: resp.StatusCode, Err: err}
	}
	return token.New(tr.AccessToken), nil
}

func decode(r io.Reader, out any) error {
	if out == nil {
		_, err := io.Copy(io.Discard, r)
		return err
	}
	if raw, ok := out.(*json.RawMessage); ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		*raw = data
		return nil
	}
	err := json.NewDecoder(r).Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
