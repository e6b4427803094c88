package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/TodoKeeper/internal/autherr"
	"github.com/atinyakov/TodoKeeper/internal/models"
	"github.com/atinyakov/TodoKeeper/internal/repository"
	"github.com/atinyakov/TodoKeeper/internal/validation"
)

// TodoRepository defines the persistence operations needed by TodoService.
type TodoRepository interface {
	// InsertTodo returns the stored row; repository.ErrDuplicate when the id
	// belongs to another user.
	InsertTodo(ctx context.Context, t models.Todo) (models.Todo, error)
	ListTodos(ctx context.Context, userID string) ([]models.Todo, error)
}

// TodoService keeps the remote todo collection of each user.
type TodoService struct {
	repo TodoRepository
	now  func() time.Time
}

// NewTodoService constructs a TodoService.
func NewTodoService(repo TodoRepository) *TodoService {
	return &TodoService{repo: repo, now: time.Now}
}

// Add validates t and stores it for userID. Client supplied ids are kept so a
// todo saved offline keeps its identity once pushed.
func (s *TodoService) Add(ctx context.Context, userID string, t models.Todo) (models.Todo, error) {
	draft := validation.TodoDraft{Title: t.Title, Description: t.Description, Priority: t.Priority}
	if errs := draft.Validate(); !errs.Valid() {
		return models.Todo{}, autherr.New(autherr.InvalidArgument, firstMessage(errs))
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now().UTC()
	}
	t.UserID = userID
	t.Pending = false

	saved, err := s.repo.InsertTodo(ctx, t)
	if errors.Is(err, repository.ErrDuplicate) {
		return models.Todo{}, autherr.New(autherr.IDAlreadyInUse, "todo id already in use")
	}
	if err != nil {
		return models.Todo{}, fmt.Errorf("add todo: %w", err)
	}
	return saved, nil
}

// List returns the collection of userID.
func (s *TodoService) List(ctx context.Context, userID string) ([]models.Todo, error) {
	todos, err := s.repo.ListTodos(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// firstMessage picks a deterministic message out of errs.
func firstMessage(errs validation.Errors) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return errs[fields[0]]
}
