package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"valentine-server/internal/models"
)

// Compile-time check to ensure pgTokenRepository implements TokenRepository
var _ TokenRepository = (*pgTokenRepository)(nil)

type pgTokenRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPgTokenRepository creates a new PostgreSQL-backed TokenRepository.
func NewPgTokenRepository(db *pgxpool.Pool, logger *zap.Logger) TokenRepository {
	return &pgTokenRepository{
		db:     db,
		logger: logger.Named("PgTokenRepo"),
	}
}

func (r *pgTokenRepository) Upsert(ctx context.Context, token *models.GmailToken) error {
	query := `
        INSERT INTO gmail_tokens (email, access_token, refresh_token, expires_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        ON CONFLICT (email) DO UPDATE SET
            access_token = EXCLUDED.access_token,
            refresh_token = EXCLUDED.refresh_token,
            expires_at = EXCLUDED.expires_at,
            updated_at = NOW();
    `
	_, err := r.db.Exec(ctx, query, token.Email, token.AccessToken, token.RefreshToken, token.ExpiresAt)
	if err != nil {
		r.logger.Error("Failed to upsert gmail token", zap.Error(err), zap.String("email", token.Email))
		return fmt.Errorf("failed to upsert gmail token for %q: %w", token.Email, err)
	}
	r.logger.Info("Gmail token stored", zap.String("email", token.Email), zap.Time("expiresAt", token.ExpiresAt))
	return nil
}

func (r *pgTokenRepository) GetByEmail(ctx context.Context, email string) (*models.GmailToken, error) {
	query := `SELECT email, access_token, refresh_token, expires_at, created_at, updated_at
              FROM gmail_tokens WHERE email = $1`
	var token models.GmailToken
	err := pgxscan.Get(ctx, r.db, &token, query, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTokenNotFound
		}
		r.logger.Error("Failed to fetch gmail token", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to fetch gmail token for %q: %w", email, err)
	}
	return &token, nil
}

func (r *pgTokenRepository) GetAny(ctx context.Context) (*models.GmailToken, error) {
	query := `SELECT email, access_token, refresh_token, expires_at, created_at, updated_at
              FROM gmail_tokens ORDER BY updated_at DESC LIMIT 1`
	var token models.GmailToken
	err := pgxscan.Get(ctx, r.db, &token, query)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTokenNotFound
		}
		r.logger.Error("Failed to fetch any gmail token", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch gmail token: %w", err)
	}
	return &token, nil
}

func (r *pgTokenRepository) UpdateAccessToken(ctx context.Context, email, accessToken string, expiresAt time.Time) error {
	query := `UPDATE gmail_tokens
              SET access_token = $2, expires_at = $3, updated_at = NOW()
              WHERE email = $1`
	tag, err := r.db.Exec(ctx, query, email, accessToken, expiresAt)
	if err != nil {
		r.logger.Error("Failed to update access token", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to update access token for %q: %w", email, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrTokenNotFound
	}
	r.logger.Debug("Access token refreshed", zap.String("email", email), zap.Time("expiresAt", expiresAt))
	return nil
}

func (r *pgTokenRepository) Delete(ctx context.Context, email string) error {
	query := `DELETE FROM gmail_tokens WHERE email = $1`
	_, err := r.db.Exec(ctx, query, email)
	if err != nil {
		r.logger.Error("Failed to delete gmail token", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to delete gmail token for %q: %w", email, err)
	}
	r.logger.Info("Gmail token deleted", zap.String("email", email))
	return nil
}
