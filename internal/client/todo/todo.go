// Package todo is the device todo collection. The whole collection is kept
// under one store key and pushed to the provider when it can be reached.
package todo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/TodoKeeper/internal/client/api"
	"github.com/atinyakov/TodoKeeper/internal/models"
	"github.com/atinyakov/TodoKeeper/internal/validation"
)

// StorageKey is the store key of the collection.
const StorageKey = "todos"

// ErrInvalid is returned when a draft fails validation.
var ErrInvalid = errors.New("invalid todo")

// Store is the key-value store holding the collection.
type Store interface {
	Store(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string, dest any) (bool, error)
}

// Remote is the provider side collection.
type Remote interface {
	AddTodo(ctx context.Context, t models.Todo) (models.Todo, error)
	ListTodos(ctx context.Context) ([]models.Todo, error)
}

// AddResult describes a successful Add. Offline is true when the todo was
// kept on the device only because the provider was unreachable.
type AddResult struct {
	Todo    models.Todo
	Offline bool
}

// Collection mutates the todo collection.
type Collection struct {
	store  Store
	remote Remote
	log    *zap.Logger
	now    func() time.Time

	// mu serializes read-modify-write cycles of the stored collection.
	mu sync.Mutex
}

// New creates a Collection. A nil remote keeps everything on the device.
func New(store Store, remote Remote, log *zap.Logger) *Collection {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collection{store: store, remote: remote, log: log, now: time.Now}
}

// Add validates d and appends the resulting todo. Validation failures carry
// the field errors and wrap ErrInvalid; nothing is stored in that case.
//
// The todo is written to the device as pending before it is pushed, so a
// failed local write never leaves an orphan on the provider. A provider
// rejection removes it again; an unreachable provider leaves it pending.
func (c *Collection) Add(ctx context.Context, d validation.TodoDraft) (AddResult, error) {
	if errs := d.Validate(); !errs.Valid() {
		return AddResult{}, &ValidationError{Errors: errs}
	}

	t := models.Todo{
		ID:          uuid.NewString(),
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		CreatedAt:   c.now().UTC(),
		Pending:     c.remote != nil,
	}
	if err := c.update(ctx, func(todos []models.Todo) []models.Todo {
		return append(todos, t)
	}); err != nil {
		return AddResult{}, err
	}
	if c.remote == nil {
		return AddResult{Todo: t}, nil
	}

	saved, err := c.remote.AddTodo(ctx, t)
	switch {
	case errors.Is(err, api.ErrUnavailable):
		c.log.Warn("provider unreachable, keeping todo on device", zap.String("id", t.ID))
		return AddResult{Todo: t, Offline: true}, nil
	case err != nil:
		if rerr := c.update(ctx, func(todos []models.Todo) []models.Todo {
			return without(todos, t.ID)
		}); rerr != nil {
			c.log.Error("remove rejected todo", zap.String("id", t.ID), zap.Error(rerr))
		}
		return AddResult{}, fmt.Errorf("add todo: %w", err)
	}

	saved.Pending = false
	if err := c.update(ctx, func(todos []models.Todo) []models.Todo {
		return replace(todos, saved)
	}); err != nil {
		// The provider has it; the next Refresh replaces the pending copy.
		c.log.Warn("mark todo synced", zap.String("id", saved.ID), zap.Error(err))
	}
	return AddResult{Todo: saved}, nil
}

// update runs a read-modify-write cycle of the stored collection.
func (c *Collection) update(ctx context.Context, fn func([]models.Todo) []models.Todo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	todos, err := c.load(ctx)
	if err != nil {
		return err
	}
	if err := c.store.Store(ctx, StorageKey, fn(todos)); err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	return nil
}

func without(todos []models.Todo, id string) []models.Todo {
	out := todos[:0]
	for _, t := range todos {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func replace(todos []models.Todo, saved models.Todo) []models.Todo {
	for i, t := range todos {
		if t.ID == saved.ID {
			todos[i] = saved
			return todos
		}
	}
	return append(todos, saved)
}

// List returns the collection kept on the device, oldest first.
func (c *Collection) List(ctx context.Context) ([]models.Todo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Pending returns the todos that have not reached the provider.
func (c *Collection) Pending(ctx context.Context) ([]models.Todo, error) {
	todos, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	pending := []models.Todo{}
	for _, t := range todos {
		if t.Pending {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

// Refresh replaces the device collection with the provider's, keeping todos
// that are still pending.
func (c *Collection) Refresh(ctx context.Context) ([]models.Todo, error) {
	if c.remote == nil {
		return c.List(ctx)
	}
	remote, err := c.remote.ListTodos(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh todos: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	local, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(remote))
	for _, t := range remote {
		known[t.ID] = true
	}
	merged := append([]models.Todo{}, remote...)
	for _, t := range local {
		if t.Pending && !known[t.ID] {
			merged = append(merged, t)
		}
	}
	if err := c.store.Store(ctx, StorageKey, merged); err != nil {
		return nil, fmt.Errorf("save todos: %w", err)
	}
	return merged, nil
}

func (c *Collection) load(ctx context.Context) ([]models.Todo, error) {
	todos := []models.Todo{}
	if _, err := c.store.Get(ctx, StorageKey, &todos); err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	return todos, nil
}

// ValidationError carries the field errors of a rejected draft.
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid todo: %d field(s)", len(e.Errors))
}

// Unwrap makes errors.Is(err, ErrInvalid) hold.
func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}
