package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CleanExpired removes revoked tokens and password reset tokens that expired
// before now. It returns the number of removed rows.
func CleanExpired(ctx context.Context, db *sql.DB, now time.Time) (int64, error) {
	var removed int64
	for _, query := range []string{
		`DELETE FROM revoked_tokens WHERE expires_at < $1`,
		`DELETE FROM password_resets WHERE expires_at < $1`,
	} {
		res, err := db.ExecContext(ctx, query, now)
		if err != nil {
			return removed, fmt.Errorf("clean expired: %w", err)
		}
		if rows, err := res.RowsAffected(); err == nil {
			removed += rows
		}
	}
	return removed, nil
}

// StartExpiredTokenCleaner runs CleanExpired every interval until ctx is done.
func StartExpiredTokenCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := CleanExpired(ctx, db, time.Now())
				if err != nil {
					log.Error("failed to clean expired tokens", zap.Error(err))
					continue
				}
				if removed > 0 {
					log.Info("cleaned expired tokens", zap.Int64("removed", removed))
				}
			}
		}
	}()
}
