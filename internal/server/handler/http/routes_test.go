package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/TodoKeeper/internal/autherr"
	"github.com/atinyakov/TodoKeeper/internal/models"
	"github.com/atinyakov/TodoKeeper/internal/service"
)

type fakeTodoService struct {
	todos []models.Todo
	owner string
}

func (f *fakeTodoService) Add(ctx context.Context, userID string, t models.Todo) (models.Todo, error) {
	if t.Title == "" {
		return models.Todo{}, autherr.New(autherr.InvalidArgument, "Please enter a todo title")
	}
	if t.ID == "taken" {
		return models.Todo{}, autherr.New(autherr.IDAlreadyInUse, "todo id already in use")
	}
	f.owner = userID
	t.UserID = userID
	f.todos = append(f.todos, t)
	return t, nil
}

func (f *fakeTodoService) List(ctx context.Context, userID string) ([]models.Todo, error) {
	f.owner = userID
	return f.todos, nil
}

type fakeAuthenticator struct{}

func (fakeAuthenticator) Authenticate(ctx context.Context, token string) (*service.Claims, error) {
	if token != "good" {
		return nil, autherr.New(autherr.InvalidToken, "bad token")
	}
	return &service.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ID: "jti-1"}}, nil
}

func newTestRouter(auth *fakeAuthService, todos *fakeTodoService) http.Handler {
	return NewRouter(
		&AuthHandler{AuthService: auth, Logger: zap.NewNop()},
		&TodoHandler{TodoService: todos, Logger: zap.NewNop()},
		fakeAuthenticator{},
		zap.NewNop(),
	)
}

func do(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Todos(t *testing.T) {
	todos := &fakeTodoService{}
	r := newTestRouter(&fakeAuthService{}, todos)

	rec := do(r, http.MethodGet, "/api/todos", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(r, http.MethodPost, "/api/todos", "good", `{"id":"t1","title":"Buy milk","priority":"low"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "u1", todos.owner)

	rec = do(r, http.MethodPost, "/api/todos", "good", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodPost, "/api/todos", "good", `{"id":"taken","title":"Buy milk","priority":"low"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "auth/id-already-in-use")

	rec = do(r, http.MethodGet, "/api/todos", "good", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.Todo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "Buy milk", got[0].Title)
	assert.Equal(t, models.PriorityLow, got[0].Priority)
}

func TestRouter_Auth(t *testing.T) {
	auth := &fakeAuthService{user: &models.User{ID: "u1", Email: "ann@example.com"}, token: "tok"}
	r := newTestRouter(auth, &fakeTodoService{})

	rec := do(r, http.MethodPost, "/api/auth/signin", "", `{"email":"ann@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodGet, "/api/auth/me", "good", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	assert.Equal(t, "ann@example.com", user.Email)

	rec = do(r, http.MethodPost, "/api/auth/signout", "bad", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(r, http.MethodPost, "/api/auth/signout", "good", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "jti-1", auth.signedOut)
}

func TestRouter_RejectsNonJSON(t *testing.T) {
	r := newTestRouter(&fakeAuthService{}, &fakeTodoService{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", bytes.NewBufferString("email=a"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
