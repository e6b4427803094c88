// Package repository provides PostgreSQL persistence for accounts, tokens and todos.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/TodoKeeper/internal/models"
)

// PostgresAuthRepository stores provider accounts in PostgreSQL.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the given database connection.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// CreateUser inserts a new account. It returns ErrDuplicate when the email is taken.
func (r *PostgresAuthRepository) CreateUser(ctx context.Context, a *models.Account) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, password_hash, disabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.Email, a.DisplayName, a.PasswordHash, a.Disabled, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

// UserByEmail fetches an account by email. It returns ErrNotFound when absent.
func (r *PostgresAuthRepository) UserByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.queryUser(ctx, `
		SELECT id, email, display_name, password_hash, disabled, created_at
		FROM users WHERE email = $1
	`, email)
}

// UserByID fetches an account by id. It returns ErrNotFound when absent.
func (r *PostgresAuthRepository) UserByID(ctx context.Context, id string) (*models.Account, error) {
	return r.queryUser(ctx, `
		SELECT id, email, display_name, password_hash, disabled, created_at
		FROM users WHERE id = $1
	`, id)
}

// UpdatePassword replaces the password hash of the account.
func (r *PostgresAuthRepository) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update password: %w", ErrNotFound)
	}
	return nil
}

func (r *PostgresAuthRepository) queryUser(ctx context.Context, query string, arg string) (*models.Account, error) {
	var a models.Account
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&a.ID, &a.Email, &a.DisplayName, &a.PasswordHash, &a.Disabled, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("query user: %w", translate(err))
	}
	return &a, nil
}
