package models

import "time"

// GmailToken is one row of the gmail_tokens table, keyed by account email.
// At most one live record exists per email; writes upsert on conflict.
type GmailToken struct {
	Email        string    `json:"email" db:"email"`
	AccessToken  string    `json:"-" db:"access_token"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	ExpiresAt    time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Expired reports whether the access token needs a refresh before use.
func (t *GmailToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
