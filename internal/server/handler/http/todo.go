package http

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/TodoKeeper/internal/middleware"
	"github.com/atinyakov/TodoKeeper/internal/models"
)

// TodoService defines the operations required by TodoHandler.
type TodoService interface {
	Add(ctx context.Context, userID string, t models.Todo) (models.Todo, error)
	List(ctx context.Context, userID string) ([]models.Todo, error)
}

// TodoHandler serves the remote todo collection of the signed in user.
type TodoHandler struct {
	TodoService TodoService
	Logger      *zap.Logger
}

// List handles GET /api/todos.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	todos, err := h.TodoService.List(r.Context(), middleware.GetUserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

// Add handles POST /api/todos.
func (h *TodoHandler) Add(w http.ResponseWriter, r *http.Request) {
	var t models.Todo
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		badRequest(w, "invalid body")
		return
	}

	saved, err := h.TodoService.Add(r.Context(), middleware.GetUserIDFromContext(r.Context()), t)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}
