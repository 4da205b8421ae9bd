package model

import "time"

// User is the authenticated user as returned by GET /auth/me.
type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	DisplayName    *string    `json:"display_name,omitempty"`
	ProfilePicture *string    `json:"profile_picture,omitempty"`
	TotalExp       int        `json:"total_exp"`
	IsPremium      bool       `json:"is_premium,omitempty"`
	PremiumExpiry  *Timestamp `json:"premium_expiry,omitempty"`
	IsAdmin        bool       `json:"is_admin,omitempty"`
}

// Name returns the display name, falling back to the email address.
func (u *User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Email
}

// PremiumActive applies the backend's rule: premium with no expiry never lapses,
// otherwise the expiry must be after now.
func (u *User) PremiumActive(now time.Time) bool {
	if !u.IsPremium {
		return false
	}
	if u.PremiumExpiry == nil || u.PremiumExpiry.IsZero() {
		return true
	}
	return u.PremiumExpiry.After(now)
}

// Clone returns a deep copy so callers cannot mutate shared session state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.DisplayName != nil {
		v := *u.DisplayName
		c.DisplayName = &v
	}
	if u.ProfilePicture != nil {
		v := *u.ProfilePicture
		c.ProfilePicture = &v
	}
	if u.PremiumExpiry != nil {
		v := *u.PremiumExpiry
		c.PremiumExpiry = &v
	}
	return &c
}

// UserPatch is a partial, local update of a User. Nil fields are left alone.
type UserPatch struct {
	DisplayName    *string
	ProfilePicture *string
	TotalExp       *int
	IsPremium      *bool
	PremiumExpiry  *Timestamp
}
