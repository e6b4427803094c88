package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresTokenRepository keeps revoked bearer tokens and password reset tokens.
type PostgresTokenRepository struct {
	DB *sql.DB
}

// NewPostgresTokenRepository creates a new PostgresTokenRepository.
func NewPostgresTokenRepository(db *sql.DB) *PostgresTokenRepository {
	return &PostgresTokenRepository{DB: db}
}

// RevokeToken records jti as revoked until expiresAt. Revoking twice is a no-op.
func (r *PostgresTokenRepository) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		jti, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti has been revoked.
func (r *PostgresTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE jti = $1)`,
		jti,
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked: %w", err)
	}
	return revoked, nil
}

// CreateReset stores a password reset token for userID.
func (r *PostgresTokenRepository) CreateReset(ctx context.Context, token, userID string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO password_resets (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("create reset: %w", err)
	}
	return nil
}

// ConsumeReset deletes a reset token that is still valid at now and returns
// its user. It returns ErrNotFound for unknown or expired tokens.
func (r *PostgresTokenRepository) ConsumeReset(ctx context.Context, token string, now time.Time) (string, error) {
	var userID string
	err := r.DB.QueryRowContext(ctx,
		`DELETE FROM password_resets WHERE token = $1 AND expires_at >= $2 RETURNING user_id`,
		token, now,
	).Scan(&userID)
	if err != nil {
		return "", fmt.Errorf("consume reset: %w", translate(err))
	}
	return userID, nil
}
