package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

const bearerType = "Bearer"

// New wraps a raw access token as issued by the backend. The token is opaque to
// the client; when it happens to be a JWT its exp claim is read, unverified, so
// the expiry can be displayed. Anything else gets a zero Expiry.
func New(raw string) *oauth2.Token {
	return &oauth2.Token{
		AccessToken: raw,
		TokenType:   bearerType,
		Expiry:      ExpiryOf(raw),
	}
}

// ExpiryOf returns the exp claim of a JWT without verifying its signature.
func ExpiryOf(raw string) time.Time {
	claims := jwtlib.MapClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Subject returns the sub claim of a JWT without verifying it, or "".
func Subject(raw string) string {
	claims := jwtlib.MapClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(raw, claims); err != nil {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

// Copy returns a shallow copy of tok so stores never hand out their own pointer.
func Copy(tok *oauth2.Token) *oauth2.Token {
	if tok == nil {
		return nil
	}
	c := *tok
	return &c
}
