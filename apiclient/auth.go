package apiclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-questpath-client/model"
	"github.com/jrsteele09/go-questpath-client/token"
	"golang.org/x/oauth2"
)

// Login exchanges credentials for a token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) (*oauth2.Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var resp model.TokenResponse
	if err := c.Post(ctx, "/auth/login", form, &resp, SkipRefresh()); err != nil {
		return nil, err
	}
	return c.storeToken(resp)
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.Post(ctx, "/auth/register", model.Registration{Email: email, Password: password}, nil, SkipRefresh())
}

// OAuthLogin syncs a third-party identity with the backend and stores the
// backend's own token.
func (c *Client) OAuthLogin(ctx context.Context, identity model.OAuthIdentity) (*oauth2.Token, error) {
	var resp model.TokenResponse
	if err := c.Post(ctx, "/auth/oauth-login", identity, &resp, SkipRefresh()); err != nil {
		return nil, err
	}
	return c.storeToken(resp)
}

// Me fetches the current user.
func (c *Client) Me(ctx context.Context, opts ...RequestOption) (*model.User, error) {
	var user model.User
	if err := c.Get(ctx, "/auth/me", &user, opts...); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMe changes the display name and returns the updated fields.
func (c *Client) UpdateMe(ctx context.Context, update model.ProfileUpdate) (*model.User, error) {
	var user model.User
	if err := c.Patch(ctx, "/auth/me", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) storeToken(resp model.TokenResponse) (*oauth2.Token, error) {
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("token response carried no access token")
	}
	tok := token.New(resp.AccessToken)
	if err := c.tokens.Set(tok); err != nil {
		return nil, fmt.Errorf("storing token: %w", err)
	}
	return tok, nil
}
