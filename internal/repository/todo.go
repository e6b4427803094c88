package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blockloop/scan"

	"github.com/atinyakov/TodoKeeper/internal/models"
)

// PostgresTodoRepository stores the remote todo collection of every user.
type PostgresTodoRepository struct {
	DB *sql.DB
}

// NewPostgresTodoRepository creates a new PostgresTodoRepository.
func NewPostgresTodoRepository(db *sql.DB) *PostgresTodoRepository {
	return &PostgresTodoRepository{DB: db}
}

// InsertTodo stores a todo and returns the stored row. Re-sending an id the
// same user already stored returns the existing row unchanged, so a client may
// push a record again after a lost response. An id owned by another user
// yields ErrDuplicate.
func (r *PostgresTodoRepository) InsertTodo(ctx context.Context, t models.Todo) (models.Todo, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO todos (id, user_id, title, description, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, t.ID, t.UserID, t.Title, t.Description, string(t.Priority), t.CreatedAt)
	if err != nil {
		return models.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	if n == 1 {
		return t, nil
	}

	existing, err := r.todoByID(ctx, t.ID)
	if err != nil {
		return models.Todo{}, err
	}
	if existing.UserID != t.UserID {
		return models.Todo{}, ErrDuplicate
	}
	return existing, nil
}

func (r *PostgresTodoRepository) todoByID(ctx context.Context, id string) (models.Todo, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, title, description, priority, created_at
		FROM todos WHERE id = $1
	`, id)
	if err != nil {
		return models.Todo{}, fmt.Errorf("get todo: %w", err)
	}
	defer rows.Close()

	var t models.Todo
	if err := scan.Row(&t, rows); err != nil {
		return models.Todo{}, translate(err)
	}
	return t, nil
}

// ListTodos returns the todos of userID, oldest first.
func (r *PostgresTodoRepository) ListTodos(ctx context.Context, userID string) ([]models.Todo, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, title, description, priority, created_at
		FROM todos WHERE user_id = $1 ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	if err := scan.Rows(&todos, rows); err != nil {
		return nil, fmt.Errorf("scan todos: %w", err)
	}
	return todos, nil
}
