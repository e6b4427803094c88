package service

import (
	"context"
	"time"

	"github.com/atinyakov/TodoKeeper/internal/models"
)

type mockAuthRepo struct {
	CreateUserFunc     func(ctx context.Context, a *models.Account) error
	UserByEmailFunc    func(ctx context.Context, email string) (*models.Account, error)
	UserByIDFunc       func(ctx context.Context, id string) (*models.Account, error)
	UpdatePasswordFunc func(ctx context.Context, id string, hash []byte) error
}

func (m *mockAuthRepo) CreateUser(ctx context.Context, a *models.Account) error {
	return m.CreateUserFunc(ctx, a)
}
func (m *mockAuthRepo) UserByEmail(ctx context.Context, email string) (*models.Account, error) {
	return m.UserByEmailFunc(ctx, email)
}
func (m *mockAuthRepo) UserByID(ctx context.Context, id string) (*models.Account, error) {
	return m.UserByIDFunc(ctx, id)
}
func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	return m.UpdatePasswordFunc(ctx, id, hash)
}

type mockTokenRepo struct {
	RevokeTokenFunc  func(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevokedFunc    func(ctx context.Context, jti string) (bool, error)
	CreateResetFunc  func(ctx context.Context, token, userID string, expiresAt time.Time) error
	ConsumeResetFunc func(ctx context.Context, token string, now time.Time) (string, error)
}

func (m *mockTokenRepo) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	return m.RevokeTokenFunc(ctx, jti, expiresAt)
}
func (m *mockTokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return m.IsRevokedFunc(ctx, jti)
}
func (m *mockTokenRepo) CreateReset(ctx context.Context, token, userID string, expiresAt time.Time) error {
	return m.CreateResetFunc(ctx, token, userID, expiresAt)
}
func (m *mockTokenRepo) ConsumeReset(ctx context.Context, token string, now time.Time) (string, error) {
	return m.ConsumeResetFunc(ctx, token, now)
}

type mockNotifier struct {
	NotifyFunc func(ctx context.Context, ev models.PasswordReset) error
}

func (m *mockNotifier) NotifyPasswordReset(ctx context.Context, ev models.PasswordReset) error {
	return m.NotifyFunc(ctx, ev)
}

type mockTodoRepo struct {
	InsertTodoFunc func(ctx context.Context, t models.Todo) (models.Todo, error)
	ListTodosFunc  func(ctx context.Context, userID string) ([]models.Todo, error)
}

func (m *mockTodoRepo) InsertTodo(ctx context.Context, t models.Todo) (models.Todo, error) {
	return m.InsertTodoFunc(ctx, t)
}
func (m *mockTodoRepo) ListTodos(ctx context.Context, userID string) ([]models.Todo, error) {
	return m.ListTodosFunc(ctx, userID)
}
