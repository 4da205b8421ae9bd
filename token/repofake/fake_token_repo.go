package tokenfakerepo

import (
	"sync"

	"github.com/jrsteele09/go-questpath-client/internal/errors"
	"github.com/jrsteele09/go-questpath-client/token"
	"golang.org/x/oauth2"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

// FakeTokenRepo keeps the token in memory. It also backs --ephemeral CLI runs.
type FakeTokenRepo struct {
	tok  *oauth2.Token
	sets int
	lock sync.RWMutex
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{}
}

// NewFakeTokenRepoWith returns a repo pre-loaded with raw.
func NewFakeTokenRepoWith(raw string) *FakeTokenRepo {
	return &FakeTokenRepo{tok: token.New(raw)}
}

func (tr *FakeTokenRepo) Get() (*oauth2.Token, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	if tr.tok == nil {
		return nil, errors.ErrNoToken
	}
	return token.Copy(tr.tok), nil
}

func (tr *FakeTokenRepo) Set(tok *oauth2.Token) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	tr.tok = token.Copy(tok)
	tr.sets++
	return nil
}

func (tr *FakeTokenRepo) Clear() error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	tr.tok = nil
	return nil
}

// Sets reports how many times Set was called.
func (tr *FakeTokenRepo) Sets() int {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	return tr.sets
}
