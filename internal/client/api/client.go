// Package api is the HTTP client of the authentication provider and the
// remote todo collection. The bearer token lives in memory only.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/TodoKeeper/internal/autherr"
	"github.com/atinyakov/TodoKeeper/internal/models"
)

// ErrUnavailable is returned when the provider cannot be reached.
var ErrUnavailable = errors.New("provider unavailable")

// Client talks to the provider API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger

	mu     sync.Mutex
	token  string
	user   *models.User
	subs   map[int]chan *models.User
	nextID int
}

// New creates a Client for the provider at baseURL.
func New(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
		subs:    make(map[int]chan *models.User),
	}
}

type credentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// CreateUser registers an account and signs it in.
func (c *Client) CreateUser(ctx context.Context, email, password, displayName string) (*models.User, error) {
	var s session
	in := credentials{Email: email, Password: password, DisplayName: displayName}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", in, &s); err != nil {
		return nil, err
	}
	c.setSession(s.Token, s.User)
	return s.User, nil
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	var s session
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin", credentials{Email: email, Password: password}, &s); err != nil {
		return nil, err
	}
	c.setSession(s.Token, s.User)
	return s.User, nil
}

// SignOut revokes the current token and clears the session. A token the
// provider no longer accepts is dropped locally without error.
func (c *Client) SignOut(ctx context.Context) error {
	if c.Token() != "" {
		err := c.do(ctx, http.MethodPost, "/api/auth/signout", nil, nil)
		if err != nil && autherr.CodeOf(err) != autherr.InvalidToken {
			return err
		}
	}
	c.setSession("", nil)
	return nil
}

// SendPasswordResetEmail asks the provider to mail a reset link.
func (c *Client) SendPasswordResetEmail(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/reset", map[string]string{"email": email}, nil)
}

// ConfirmPasswordReset sets a new password using the token from the reset link.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/reset/confirm", map[string]string{
		"token":    token,
		"password": password,
	}, nil)
}

// CurrentUser asks the provider who holds the current token and publishes
// the answer to subscribers. It returns nil without error when there is no
// session, including when the provider no longer accepts the token.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	token := c.Token()
	if token == "" {
		return nil, nil
	}
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		if autherr.CodeOf(err) == autherr.InvalidToken {
			c.setSession("", nil)
			return nil, nil
		}
		return nil, err
	}
	c.setSession(token, &u)
	return &u, nil
}

// AddTodo stores t in the remote collection.
func (c *Client) AddTodo(ctx context.Context, t models.Todo) (models.Todo, error) {
	var saved models.Todo
	if err := c.do(ctx, http.MethodPost, "/api/todos", t, &saved); err != nil {
		return models.Todo{}, err
	}
	return saved, nil
}

// ListTodos returns the remote collection.
func (c *Client) ListTodos(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// Token returns the bearer token of the current session, if any.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("provider request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		return fmt.Errorf("%s %s: %w: status %d", method, path, ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		var e autherr.Error
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Code == "" {
			return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
		}
		return &e
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}
