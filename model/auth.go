package model

// TokenResponse is returned by login, oauth-login and refresh.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// Registration is the body of POST /auth/register.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OAuthIdentity is the third-party identity synced through POST /auth/oauth-login.
type OAuthIdentity struct {
	Email          string `json:"email"`
	GoogleID       string `json:"google_id"`
	DisplayName    string `json:"display_name,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// ProfileUpdate is the body of PATCH /auth/me.
type ProfileUpdate struct {
	DisplayName string `json:"display_name"`
}
