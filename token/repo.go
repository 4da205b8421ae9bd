package token

import "golang.org/x/oauth2"

// Repo is the single owner of the bearer token on the client. Get returns
// errors.ErrNoToken when nothing is stored. Implementations perform no
// network access and no validation of the token's format.
type Repo interface {
	Get() (*oauth2.Token, error)
	Set(tok *oauth2.Token) error
	Clear() error
}
