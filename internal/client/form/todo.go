package form

import (
	"context"
	"errors"
	"sync"

	"github.com/atinyakov/TodoKeeper/internal/client/todo"
	"github.com/atinyakov/TodoKeeper/internal/models"
	"github.com/atinyakov/TodoKeeper/internal/validation"
)

// Todos is the todo collection as seen by the add todo screen.
type Todos interface {
	Add(ctx context.Context, d validation.TodoDraft) (todo.AddResult, error)
}

// AddTodo is the add todo form.
type AddTodo struct {
	base
	todos Todos

	mu    sync.Mutex
	draft validation.TodoDraft
}

// NewAddTodo creates a mounted form with the default priority.
func NewAddTodo(todos Todos) *AddTodo {
	return &AddTodo{base: newBase(), todos: todos, draft: validation.NewTodoDraft()}
}

// Set updates a field and clears its error. Unknown fields are ignored.
func (f *AddTodo) Set(field, value string) {
	f.mu.Lock()
	switch field {
	case validation.FieldTitle:
		f.draft.Title = value
	case validation.FieldDescription:
		f.draft.Description = value
	case validation.FieldPriority:
		f.draft.Priority = models.Priority(value)
	}
	f.mu.Unlock()
	f.edited(field)
}

// Draft returns the current values.
func (f *AddTodo) Draft() validation.TodoDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// CanSubmit reports whether the save button is enabled.
func (f *AddTodo) CanSubmit() bool {
	return f.canSubmit(f.Draft().Complete())
}

// Submit validates the draft and adds it to the collection. A todo kept on
// the device because the provider was unreachable still counts as saved.
func (f *AddTodo) Submit(ctx context.Context) Outcome {
	d := f.Draft()
	errs := d.Validate()
	if !errs.Valid() {
		out := f.run(errs, nil)
		out.Title = "Error"
		out.Message = firstError(errs, validation.FieldTitle, validation.FieldDescription, validation.FieldPriority)
		return out
	}
	return f.run(errs, func() Outcome {
		res, err := f.todos.Add(ctx, d)
		var verr *todo.ValidationError
		switch {
		case errors.As(err, &verr):
			return Outcome{Errors: verr.Errors, Title: "Error", Message: firstError(verr.Errors, validation.FieldTitle)}
		case err != nil:
			return Outcome{Title: "Error", Message: "Failed to save todo"}
		}
		return Outcome{Success: true, Offline: res.Offline}
	})
}

func firstError(errs validation.Errors, fields ...string) string {
	for _, f := range fields {
		if msg, ok := errs[f]; ok {
			return msg
		}
	}
	for _, msg := range errs {
		return msg
	}
	return ""
}
