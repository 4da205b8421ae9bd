package boltrepo

import (
	"net/http"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-questpath-client/internal/errors"
	"github.com/jrsteele09/go-questpath-client/token"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	s, err := NewRepositoryFromFile(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestStoreGetSetClear(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Get()
	require.ErrorIs(t, err, errors.ErrNoToken)

	require.NoError(t, s.Set(token.New("abc")))
	tok, err := s.Get()
	require.NoError(t, err)
	require.Equal(t, "abc", tok.AccessToken)
	require.Equal(t, "Bearer", tok.TokenType)

	require.NoError(t, s.Clear())
	_, err = s.Get()
	require.ErrorIs(t, err, errors.ErrNoToken)

	require.NoError(t, s.Clear(), "clearing an empty store is not an error")
}

func TestStoreSurvivesReopen(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.Set(token.New("persisted")))
	require.NoError(t, s.Close())

	reopened, err := NewRepositoryFromFile(path)
	require.NoError(t, err)
	defer reopened.Close()

	tok, err := reopened.Get()
	require.NoError(t, err)
	require.Equal(t, "persisted", tok.AccessToken)
}

func TestSealedStore(t *testing.T) {
	sealer, err := NewSealer("correct horse")
	require.NoError(t, err)
	s, path := newTestStore(t, WithSealer(sealer))

	require.NoError(t, s.Set(token.New("secret-token")))

	err = s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(tokensBucket).Get(accessKey)
		require.NotContains(t, string(raw), "secret-token")
		return nil
	})
	require.NoError(t, err)

	tok, err := s.Get()
	require.NoError(t, err)
	require.Equal(t, "secret-token", tok.AccessToken)
	require.NoError(t, s.Close())

	wrong, err := NewSealer("wrong secret")
	require.NoError(t, err)
	reopened, err := NewRepositoryFromFile(path, WithSealer(wrong))
	require.NoError(t, err)
	defer reopened.Close()
	_, err = reopened.Get()
	require.ErrorIs(t, err, errors.ErrSealedValue)
}

func TestNewSealerRequiresSecret(t *testing.T) {
	_, err := NewSealer("")
	require.ErrorIs(t, err, errors.ErrNotConfigured)
}

func TestJar(t *testing.T) {
	s, _ := newTestStore(t)
	jar := s.Jar()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	jar.now = func() time.Time { return now }

	api, err := url.Parse("http://questpath.test/api/auth/refresh")
	require.NoError(t, err)
	other, err := url.Parse("http://elsewhere.test/")
	require.NoError(t, err)

	jar.SetCookies(api, []*http.Cookie{
		{Name: "refresh_token", Value: "r1", HttpOnly: true, MaxAge: 3600},
		{Name: "stale", Value: "x", Expires: now.Add(-time.Minute)},
		{Name: "secure_only", Value: "s", Secure: true},
	})

	cookies := jar.Cookies(api)
	require.Len(t, cookies, 1)
	require.Equal(t, "refresh_token", cookies[0].Name)
	require.Equal(t, "r1", cookies[0].Value)
	require.Empty(t, jar.Cookies(other))

	jar.SetCookies(api, []*http.Cookie{{Name: "refresh_token", Value: "r2"}})
	cookies = jar.Cookies(api)
	require.Len(t, cookies, 1)
	require.Equal(t, "r2", cookies[0].Value)

	jar.SetCookies(api, []*http.Cookie{{Name: "refresh_token", MaxAge: -1}})
	require.Empty(t, jar.Cookies(api))

	jar.SetCookies(api, []*http.Cookie{{Name: "refresh_token", Value: "r3", MaxAge: 60}})
	now = now.Add(2 * time.Minute)
	require.Empty(t, jar.Cookies(api), "expired cookies are not replayed")

	jar.SetCookies(api, []*http.Cookie{{Name: "refresh_token", Value: "r4"}})
	require.NoError(t, jar.Clear())
	require.Empty(t, jar.Cookies(api))
}
