package repository

import (
	"context"
	"time"

	"valentine-server/internal/models"
)

// TokenRepository stores Gmail OAuth tokens keyed by account email.
type TokenRepository interface {
	// Upsert inserts the record or replaces the tokens of an existing email.
	Upsert(ctx context.Context, token *models.GmailToken) error
	// GetByEmail returns the record for the email or models.ErrTokenNotFound.
	GetByEmail(ctx context.Context, email string) (*models.GmailToken, error)
	// GetAny returns any stored record, used by the connection check.
	// Returns models.ErrTokenNotFound when the table is empty.
	GetAny(ctx context.Context) (*models.GmailToken, error)
	// UpdateAccessToken persists a refreshed access token and its new expiry.
	UpdateAccessToken(ctx context.Context, email, accessToken string, expiresAt time.Time) error
	// Delete removes the record for the email. Deleting a missing row is not an error.
	Delete(ctx context.Context, email string) error
}
