// Package boltrepo persists the bearer token and the backend's session cookies
// in a BBolt file so a session survives process restarts.
package boltrepo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jrsteele09/go-questpath-client/internal/errors"
	"github.com/jrsteele09/go-questpath-client/token"
	"go.etcd.io/bbolt"
	"golang.org/x/oauth2"
)

var (
	tokensBucket  = []byte("tokens")
	cookiesBucket = []byte("cookies")
	accessKey     = []byte("access")
)

// storedToken is the on-disk form of an access token.
type storedToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type,omitempty"`
	Expiry      time.Time `json:"expiry,omitempty"`
	StoredAt    time.Time `json:"stored_at"`
}

// Store implements token.Repo backed by a BBolt database.
type Store struct {
	db     *bbolt.DB
	sealer *Sealer
}

var _ token.Repo = (*Store)(nil)

type Option func(*Store)

// WithSealer encrypts every value written by the store.
func WithSealer(s *Sealer) Option {
	return func(st *Store) {
		st.sealer = s
	}
}

// NewRepository returns a Store backed by the given BBolt database.
func NewRepository(db *bbolt.DB, opts ...Option) (*Store, error) {
	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{tokensBucket, cookiesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}
	return s, nil
}

// NewRepositoryFromFile opens (creating if needed) a BBolt database at path.
func NewRepositoryFromFile(path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	s, err := NewRepository(db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying BBolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get() (*oauth2.Token, error) {
	var stored storedToken
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(tokensBucket).Get(accessKey)
		if data == nil {
			return errors.ErrNoToken
		}
		return s.decode(data, &stored)
	})
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: stored.AccessToken,
		TokenType:   stored.TokenType,
		Expiry:      stored.Expiry,
	}, nil
}

func (s *Store) Set(tok *oauth2.Token) error {
	if tok == nil {
		return s.Clear()
	}
	data, err := s.encode(storedToken{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Expiry:      tok.Expiry,
		StoredAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(tokensBucket).Put(accessKey, data)
	})
}

func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(tokensBucket).Delete(accessKey)
	})
}

// Jar returns a cookie jar persisted in the same database.
func (s *Store) Jar() *Jar {
	return &Jar{store: s, now: time.Now}
}

func (s *Store) encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if s.sealer == nil {
		return data, nil
	}
	return s.sealer.Seal(data)
}

func (s *Store) decode(data []byte, v any) error {
	if s.sealer != nil {
		opened, err := s.sealer.Open(data)
		if err != nil {
			return err
		}
		data = opened
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(errors.ErrSealedValue, "decoding stored value: %v", err)
	}
	return nil
}
