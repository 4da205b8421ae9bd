// Package app wires configuration, storage, transport and session state into
// one value owned by the caller.
package app

import (
	"io"
	"os"
	"time"

	"github.com/jrsteele09/go-questpath-client/apiclient"
	"github.com/jrsteele09/go-questpath-client/internal/config"
	"github.com/jrsteele09/go-questpath-client/session"
	"github.com/jrsteele09/go-questpath-client/token"
	"github.com/jrsteele09/go-questpath-client/token/boltrepo"
	tokenfakerepo "github.com/jrsteele09/go-questpath-client/token/repofake"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type App struct {
	Config  config.Config
	Tokens  token.Repo
	Client  *apiclient.Client
	Session *session.Model

	store *boltrepo.Store
}

type options struct {
	ephemeral bool
	verbose   bool
	logOutput io.Writer
	notifier  apiclient.Notifier
	navigator func()
	clientOps []apiclient.Option
}

type Option func(*options)

// Ephemeral keeps the token and cookies in memory for this process only.
func Ephemeral(enabled bool) Option {
	return func(o *options) {
		o.ephemeral = enabled
	}
}

// Verbose forces debug logging.
func Verbose(enabled bool) Option {
	return func(o *options) {
		o.verbose = enabled
	}
}

func WithLogOutput(w io.Writer) Option {
	return func(o *options) {
		o.logOutput = w
	}
}

func WithNotifier(n apiclient.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithNavigator is run when the session logs out.
func WithNavigator(fn func()) Option {
	return func(o *options) {
		o.navigator = fn
	}
}

// WithClientOptions passes extra options to the API client.
func WithClientOptions(opts ...apiclient.Option) Option {
	return func(o *options) {
		o.clientOps = append(o.clientOps, opts...)
	}
}

// New builds the logger, token store, cookie jar, API client and session, in
// that order.
func New(cfg config.Config, opts ...Option) (*App, error) {
	o := options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	SetupLogger(o.logOutput, cfg.GetLogLevel(), o.verbose)

	a := &App{Config: cfg}
	clientOpts := []apiclient.Option{
		apiclient.WithRefreshPath(cfg.GetRefreshPath()),
		apiclient.WithUserAgent(cfg.GetUserAgent()),
		apiclient.WithTimeout(cfg.GetRequestTimeout()),
		apiclient.WithCoalescedRefresh(cfg.GetCoalesceRefresh()),
	}
	if o.notifier != nil {
		clientOpts = append(clientOpts, apiclient.WithNotifier(o.notifier))
	}

	if o.ephemeral {
		a.Tokens = tokenfakerepo.NewFakeTokenRepo()
	} else {
		store, err := openStore(cfg)
		if err != nil {
			return nil, err
		}
		a.store = store
		a.Tokens = store
		clientOpts = append(clientOpts, apiclient.WithCookieJar(store.Jar()))
	}
	clientOpts = append(clientOpts, o.clientOps...)

	client, err := apiclient.New(cfg.GetBaseURL(), a.Tokens, clientOpts...)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Client = client

	var sessionOpts []session.Option
	if o.navigator != nil {
		sessionOpts = append(sessionOpts, session.WithNavigator(o.navigator))
	}
	a.Session = session.New(client, a.Tokens, sessionOpts...)

	log.Debug().
		Str("base_url", client.BaseURL()).
		Bool("ephemeral", o.ephemeral).
		Str("env", cfg.GetEnv()).
		Msg("Client initialised")
	return a, nil
}

func openStore(cfg config.Config) (*boltrepo.Store, error) {
	var storeOpts []boltrepo.Option
	if secret := cfg.GetTokenStoreSecret(); secret != "" {
		sealer, err := boltrepo.NewSealer(secret)
		if err != nil {
			return nil, err
		}
		storeOpts = append(storeOpts, boltrepo.WithSealer(sealer))
	}
	return boltrepo.NewRepositoryFromFile(cfg.GetTokenStorePath(), storeOpts...)
}

// Logout ends the session and forgets the refresh cookie.
func (a *App) Logout() {
	a.Session.Logout()
	if a.store == nil {
		return
	}
	if err := a.store.Jar().Clear(); err != nil {
		log.Err(err).Msg("Failed to clear cookies")
	}
}

// Close releases the token store file.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// SetupLogger points the global logger at w with a console writer.
func SetupLogger(w io.Writer, level string, verbose bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
}
