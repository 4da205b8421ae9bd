// Package session holds the signed-in user for the lifetime of the process and
// derives level and progress from it. The server stays the authority: local
// updates are optimistic and the next RefreshUser replaces them.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/jrsteele09/go-questpath-client/apiclient"
	"github.com/jrsteele09/go-questpath-client/apierror"
	"github.com/jrsteele09/go-questpath-client/internal/errors"
	"github.com/jrsteele09/go-questpath-client/internal/utils"
	"github.com/jrsteele09/go-questpath-client/model"
	"github.com/jrsteele09/go-questpath-client/token"
	"github.com/rs/zerolog/log"
)

// UserFetcher loads the current user. *apiclient.Client satisfies it.
type UserFetcher interface {
	Me(ctx context.Context, opts ...apiclient.RequestOption) (*model.User, error)
}

type Model struct {
	fetcher  UserFetcher
	tokens   token.Repo
	navigate func()
	now      func() time.Time

	mu      sync.RWMutex
	user    *model.User
	loading bool

	initOnce sync.Once
	ready    chan struct{}
}

type Option func(*Model)

// WithNavigator sets the callback run on Logout, typically showing the login surface.
func WithNavigator(fn func()) Option {
	return func(m *Model) {
		m.navigate = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

func New(fetcher UserFetcher, tokens token.Repo, opts ...Option) *Model {
	m := &Model{
		fetcher:  fetcher,
		tokens:   tokens,
		navigate: func() {},
		now:      time.Now,
		loading:  true,
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init runs the first RefreshUser and resolves Loading whatever the outcome.
// It returns the same errors as RefreshUser; the session is then logged out
// but the stored token is kept for a later attempt. Later calls return nil
// immediately.
func (m *Model) Init(ctx context.Context) error {
	var err error
	m.initOnce.Do(func() {
		err = m.RefreshUser(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Session could not be restored")
		}
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
		close(m.ready)
	})
	return err
}

// Loading is true until Init has resolved.
func (m *Model) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Wait blocks until Init has resolved or ctx is done.
func (m *Model) Wait(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RefreshUser reloads the user from the server. Without a stored token the
// session is cleared and no request is made. A 401 means the refresh
// attempt already failed, so the token is dropped and nil is returned.
//
// Any other failure, such as a 5xx or an unreachable server, clears the
// session but keeps the token, and the error is returned so callers can tell
// an outage from a logout. Callers that only need the logged-out state may
// ignore it.
func (m *Model) RefreshUser(ctx context.Context) error {
	if _, err := m.tokens.Get(); err != nil {
		if !errors.Is(err, errors.ErrNoToken) {
			log.Warn().Err(err).Msg("Failed to read token store")
		}
		m.setUser(nil)
		return nil
	}

	user, err := m.fetcher.Me(ctx, apiclient.Silent())
	if err != nil {
		m.setUser(nil)
		if apierror.IsStatus(err, http.StatusUnauthorized) {
			if clearErr := m.tokens.Clear(); clearErr != nil {
				log.Err(clearErr).Msg("Failed to clear token store")
			}
			return nil
		}
		return errors.Wrapf(err, "loading user")
	}
	m.setUser(user)
	return nil
}

func (m *Model) setUser(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = u.Clone()
}

// User returns a copy of the signed-in user, or nil.
func (m *Model) User() *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.Clone()
}

func (m *Model) LoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

func (m *Model) Level() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return 1
	}
	return LevelFor(m.user.TotalExp)
}

func (m *Model) XPProgress() Progress {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return ProgressFor(0)
	}
	return ProgressFor(m.user.TotalExp)
}

// IsPremium reports whether the signed-in user has an active subscription at now.
func (m *Model) IsPremium(now time.Time) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.user.PremiumActive(now)
}

// UpdateUser merges patch into the local user. It is not sent to the server.
func (m *Model) UpdateUser(patch model.UserPatch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return
	}
	u := m.user
	u.DisplayName = utils.MergePtr(u.DisplayName, patch.DisplayName)
	u.ProfilePicture = utils.MergePtr(u.ProfilePicture, patch.ProfilePicture)
	u.TotalExp = utils.Merge(u.TotalExp, patch.TotalExp)
	u.IsPremium = utils.Merge(u.IsPremium, patch.IsPremium)
	u.PremiumExpiry = utils.MergePtr(u.PremiumExpiry, patch.PremiumExpiry)
}

// Logout drops the token and the user and runs the navigator.
func (m *Model) Logout() {
	if err := m.tokens.Clear(); err != nil {
		log.Err(err).Msg("Failed to clear token store")
	}
	m.mu.Lock()
	m.user = nil
	m.loading = false
	m.mu.Unlock()
	m.navigate()
}

// RequireUser waits for Init and returns the user, or ErrNotLoggedIn.
func (m *Model) RequireUser(ctx context.Context) (*model.User, error) {
	if err := m.Wait(ctx); err != nil {
		return nil, err
	}
	u := m.User()
	if u == nil {
		return nil, errors.ErrNotLoggedIn
	}
	return u, nil
}

// Premium is IsPremium at the model's clock.
func (m *Model) Premium() bool {
	return m.IsPremium(m.now())
}
