package config

import (
	"os"
	"path/filepath"
)

const (
	tokenStorePathVar   = "QUESTPATH_TOKEN_STORE"
	tokenStoreSecretVar = "QUESTPATH_TOKEN_SECRET"
)

type Store struct {
	*layers
}

var _ StoreConfig = Store{}

// GetTokenStorePath returns the bbolt file holding the bearer token and refresh cookie.
func (s Store) GetTokenStorePath() string {
	return s.str(tokenStorePathVar, func(v *FileValues) string { return v.TokenStorePath }, defaultStorePath())
}

// GetTokenStoreSecret returns the secret used to seal stored values. Empty disables sealing.
func (s Store) GetTokenStoreSecret() string {
	return s.str(tokenStoreSecretVar, func(v *FileValues) string { return v.TokenStoreSecret }, "")
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "questpath.db"
	}
	return filepath.Join(dir, "questpath", "session.db")
}
