package config

import "time"

type Config interface {
	EnvConfig
	ClientConfig
	StoreConfig
	GoogleConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type ClientConfig interface {
	GetBaseURL() string
	GetRefreshPath() string
	GetRequestTimeout() time.Duration
	GetCoalesceRefresh() bool
	GetUserAgent() string
}

type StoreConfig interface {
	GetTokenStorePath() string
	GetTokenStoreSecret() string
}

type GoogleConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGoogleCallbackAddr() string
}

type mainConfig struct {
	EnvVars
	Client
	Store
	Google
}

// New returns a Config backed by environment variables and defaults only.
func New() Config {
	return newMainConfig(&layers{})
}

func newMainConfig(l *layers) mainConfig {
	return mainConfig{
		EnvVars: EnvVars{l},
		Client:  Client{l},
		Store:   Store{l},
		Google:  Google{l},
	}
}

// layers holds the two non-environment sources. Forced values come from
// command-line flags and beat everything; file values sit below env vars.
type layers struct {
	forced FileValues
	file   FileValues
}

func (l *layers) str(envVar string, pick func(*FileValues) string, defaultValue string) string {
	if v := pick(&l.forced); v != "" {
		return v
	}
	return lookup(envVar, pick(&l.file), defaultValue)
}
