// Package http provides the HTTP handlers of the authentication provider and
// the remote todo collection.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/TodoKeeper/internal/middleware"
	"github.com/atinyakov/TodoKeeper/internal/models"
)

// AuthService defines the provider operations required by AuthHandler.
type AuthService interface {
	SignUp(ctx context.Context, email, password, displayName string) (*models.User, string, error)
	SignIn(ctx context.Context, email, password string) (*models.User, string, error)
	SignOut(ctx context.Context, jti string, expiresAt time.Time) error
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
	SendPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, password string) error
}

// AuthHandler handles account and session requests.
type AuthHandler struct {
	AuthService AuthService
	Logger      *zap.Logger
}

// SignUpRequest is the body of POST /api/auth/signup.
type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// SignInRequest is the body of POST /api/auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetRequest is the body of POST /api/auth/reset.
type ResetRequest struct {
	Email string `json:"email"`
}

// ConfirmResetRequest is the body of POST /api/auth/reset/confirm.
type ConfirmResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// SessionResponse is returned by sign up and sign in.
type SessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// SignUp creates an account and returns its session.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request")
		return
	}

	user, token, err := h.AuthService.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, SessionResponse{Token: token, User: user})
}

// SignIn verifies credentials and returns a session.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request")
		return
	}

	user, token, err := h.AuthService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{Token: token, User: user})
}

// SignOut revokes the token that authenticated the request.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	jti, exp := middleware.GetTokenFromContext(r.Context())
	if err := h.AuthService.SignOut(r.Context(), jti, exp); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed in user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.AuthService.CurrentUser(r.Context(), middleware.GetUserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Reset sends a password reset link.
func (h *AuthHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request")
		return
	}

	if err := h.AuthService.SendPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConfirmReset sets a new password from a reset token.
func (h *AuthHandler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req ConfirmResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		badRequest(w, "invalid request")
		return
	}

	if err := h.AuthService.ConfirmPasswordReset(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
