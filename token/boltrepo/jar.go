package boltrepo

import (
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"go.etcd.io/bbolt"
)

// storedCookie keeps the fields needed to replay a cookie to the same host.
type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

// Jar is an http.CookieJar persisted per host. The client talks to a single
// backend, so domain and path matching are not applied; cookies are replaced
// by name and dropped once expired.
type Jar struct {
	store *Store
	now   func() time.Time
}

var _ http.CookieJar = (*Jar)(nil)

func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	err := j.store.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(cookiesBucket)
		current := j.load(b, u.Host)
		for _, c := range cookies {
			delete(current, c.Name)
			if c.MaxAge < 0 {
				continue
			}
			expires := c.Expires
			if c.MaxAge > 0 {
				expires = j.now().Add(time.Duration(c.MaxAge) * time.Second)
			}
			if !expires.IsZero() && !expires.After(j.now()) {
				continue
			}
			current[c.Name] = storedCookie{
				Name:     c.Name,
				Value:    c.Value,
				Path:     c.Path,
				Expires:  expires,
				Secure:   c.Secure,
				HttpOnly: c.HttpOnly,
			}
		}
		data, err := j.store.encode(current)
		if err != nil {
			return err
		}
		return b.Put([]byte(u.Host), data)
	})
	if err != nil {
		log.Err(err).Str("host", u.Host).Msg("Failed to persist cookies")
	}
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	var cookies []*http.Cookie
	_ = j.store.db.View(func(tx *bbolt.Tx) error {
		for _, c := range j.load(tx.Bucket(cookiesBucket), u.Host) {
			if !c.Expires.IsZero() && !c.Expires.After(j.now()) {
				continue
			}
			if c.Secure && u.Scheme != "https" {
				continue
			}
			cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
		}
		return nil
	})
	return cookies
}

// Clear drops every stored cookie.
func (j *Jar) Clear() error {
	return j.store.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(cookiesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(cookiesBucket)
		return err
	})
}

func (j *Jar) load(b *bbolt.Bucket, host string) map[string]storedCookie {
	current := make(map[string]storedCookie)
	data := b.Get([]byte(host))
	if data == nil {
		return current
	}
	if err := j.store.decode(data, &current); err != nil {
		log.Err(err).Str("host", host).Msg("Discarding unreadable cookies")
		return make(map[string]storedCookie)
	}
	return current
}
