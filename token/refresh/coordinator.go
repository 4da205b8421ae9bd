package refresh

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jrsteele09/go-questpath-client/internal/errors"
	"github.com/jrsteele09/go-questpath-client/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// Func obtains a new access token. It authenticates with the ambient session
// cookie, never with the expired bearer token.
type Func func(ctx context.Context) (*oauth2.Token, error)

// DefaultTimeout bounds a shared refresh once it no longer follows any caller.
const DefaultTimeout = 30 * time.Second

const flightKey = "refresh"

// Coordinator performs the refresh step of the 401 -> refresh -> retry cycle.
// On success the new token is written to the store; on failure the store is
// cleared so the session reads as logged out. A refresh abandoned through its
// context leaves the store untouched.
type Coordinator struct {
	repo    token.Repo
	refresh Func
	group   *singleflight.Group
	timeout time.Duration
	calls   atomic.Int64
}

type Option func(*Coordinator)

// WithCoalescing makes concurrent refreshes share a single call. Without it
// every failing request refreshes on its own.
func WithCoalescing() Option {
	return func(c *Coordinator) {
		c.group = &singleflight.Group{}
	}
}

// WithTimeout sets how long a shared refresh may run.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewCoordinator creates a coordinator writing to repo and refreshing with fn.
func NewCoordinator(repo token.Repo, fn Func, opts ...Option) *Coordinator {
	c := &Coordinator{
		repo:    repo,
		refresh: fn,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh obtains and stores a new token. Errors from the refresh call wrap
// errors.ErrRefreshFailed. When ctx ends first the caller gets ctx.Err().
//
// A coalesced refresh runs detached from the caller that started it, so one
// caller giving up does not fail the others waiting on the same call.
func (c *Coordinator) Refresh(ctx context.Context) (*oauth2.Token, error) {
	if c.group == nil {
		return c.doRefresh(ctx)
	}
	ch := c.group.DoChan(flightKey, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.doRefresh(flightCtx)
	})
	select {
	case <-ctx.Done():
		log.Debug().Err(ctx.Err()).Msg("Stopped waiting for token refresh")
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			log.Debug().Msg("Joined in-flight token refresh")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return token.Copy(res.Val.(*oauth2.Token)), nil
	}
}

func (c *Coordinator) doRefresh(ctx context.Context) (*oauth2.Token, error) {
	c.calls.Add(1)
	log.Info().Msg("Access token expired, refreshing")

	tok, err := c.refresh(ctx)
	if err != nil && ctx.Err() != nil {
		log.Warn().Err(err).Msg("Token refresh abandoned, keeping stored token")
		return nil, errors.Wrapf(ctx.Err(), "token refresh abandoned")
	}
	if err == nil && (tok == nil || tok.AccessToken == "") {
		err = fmt.Errorf("refresh response carried no access token")
	}
	if err != nil {
		log.Warn().Err(err).Msg("Token refresh failed, clearing stored token")
		if clearErr := c.repo.Clear(); clearErr != nil {
			log.Err(clearErr).Msg("Failed to clear token store")
		}
		return nil, fmt.Errorf("%w: %w", errors.ErrRefreshFailed, err)
	}

	if err := c.repo.Set(tok); err != nil {
		return nil, fmt.Errorf("storing refreshed token: %w", err)
	}
	log.Info().Time("expiry", tok.Expiry).Msg("Token refresh succeeded")
	return tok, nil
}

// Calls reports how many refresh calls have been made.
func (c *Coordinator) Calls() int64 {
	return c.calls.Load()
}
