// Package service provides the provider business logic for accounts, bearer
// tokens, password resets and the remote todo collection, delegating
// persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/TodoKeeper/internal/autherr"
	"github.com/atinyakov/TodoKeeper/internal/models"
	"github.com/atinyakov/TodoKeeper/internal/repository"
	"github.com/atinyakov/TodoKeeper/internal/validation"
)

// AuthRepository defines the account persistence required by AuthService.
type AuthRepository interface {
	// CreateUser stores a new account; repository.ErrDuplicate when the email is taken.
	CreateUser(ctx context.Context, a *models.Account) error
	// UserByEmail returns repository.ErrNotFound when no account matches.
	UserByEmail(ctx context.Context, email string) (*models.Account, error)
	// UserByID returns repository.ErrNotFound when no account matches.
	UserByID(ctx context.Context, id string) (*models.Account, error)
	UpdatePassword(ctx context.Context, id string, hash []byte) error
}

// TokenRepository defines the token persistence required by AuthService.
type TokenRepository interface {
	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	CreateReset(ctx context.Context, token, userID string, expiresAt time.Time) error
	// ConsumeReset returns repository.ErrNotFound for unknown or expired tokens.
	ConsumeReset(ctx context.Context, token string, now time.Time) (string, error)
}

// ResetNotifier delivers password reset links.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, ev models.PasswordReset) error
}

// AuthService implements the provider operations. Failures the client is
// expected to explain to the user are returned as *autherr.Error; anything
// else is an internal error.
type AuthService struct {
	users    AuthRepository
	tokens   TokenRepository
	issuer   *TokenIssuer
	notifier ResetNotifier
	resetTTL time.Duration
	now      func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(users AuthRepository, tokens TokenRepository, issuer *TokenIssuer, notifier ResetNotifier, resetTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		issuer:   issuer,
		notifier: notifier,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

// SignUp creates an account and signs it in.
func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if !validation.Email(email) {
		return nil, "", autherr.New(autherr.InvalidEmail, "The email address is badly formatted.")
	}
	if err := checkNewPassword(password); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", autherr.New(autherr.EmailAlreadyInUse, "The email address is already in use by another account.")
		}
		return nil, "", fmt.Errorf("sign up: %w", err)
	}

	token, err := s.issuer.Issue(account.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return account.User(), token, nil
}

// SignIn verifies the credentials and returns a fresh token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if !validation.Email(email) {
		return nil, "", autherr.New(autherr.InvalidEmail, "The email address is badly formatted.")
	}

	account, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", autherr.New(autherr.UserNotFound, "There is no user record corresponding to this identifier.")
	}
	if err != nil {
		return nil, "", fmt.Errorf("sign in: %w", err)
	}
	if account.Disabled {
		return nil, "", autherr.New(autherr.UserDisabled, "The user account has been disabled.")
	}
	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return nil, "", autherr.New(autherr.WrongPassword, "The password is invalid.")
	}

	token, err := s.issuer.Issue(account.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return account.User(), token, nil
}

// SignOut revokes the token identified by jti.
func (s *AuthService) SignOut(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := s.tokens.RevokeToken(ctx, jti, expiresAt); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Authenticate verifies token and rejects revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, autherr.New(autherr.InvalidToken, "The token is invalid or expired.")
	}
	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if revoked {
		return nil, autherr.New(autherr.InvalidToken, "The token has been revoked.")
	}
	return claims, nil
}

// CurrentUser returns the handle of the signed in account.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	account, err := s.users.UserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, autherr.New(autherr.UserNotFound, "There is no user record corresponding to this identifier.")
	}
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	if account.Disabled {
		return nil, autherr.New(autherr.UserDisabled, "The user account has been disabled.")
	}
	return account.User(), nil
}

// SendPasswordReset issues a reset token for email and hands it to the notifier.
func (s *AuthService) SendPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !validation.Email(email) {
		return autherr.New(autherr.InvalidEmail, "The email address is badly formatted.")
	}

	account, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return autherr.New(autherr.UserNotFound, "There is no user record corresponding to this identifier.")
	}
	if err != nil {
		return fmt.Errorf("password reset: %w", err)
	}

	ev := models.PasswordReset{
		Email:     account.Email,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.resetTTL).UTC(),
	}
	if err := s.tokens.CreateReset(ctx, ev.Token, account.ID, ev.ExpiresAt); err != nil {
		return fmt.Errorf("password reset: %w", err)
	}
	if err := s.notifier.NotifyPasswordReset(ctx, ev); err != nil {
		return fmt.Errorf("password reset: %w", err)
	}
	return nil
}

// ConfirmPasswordReset sets a new password using a reset token. Tokens are
// single use.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	if err := checkNewPassword(password); err != nil {
		return err
	}

	userID, err := s.tokens.ConsumeReset(ctx, token, s.now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		return autherr.New(autherr.InvalidToken, "The reset link is invalid or expired.")
	}
	if err != nil {
		return fmt.Errorf("confirm reset: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("confirm reset: %w", err)
	}
	return nil
}

// maxPasswordBytes is the longest input bcrypt hashes.
const maxPasswordBytes = 72

func checkNewPassword(password string) error {
	if !validation.PasswordLength(password) {
		return autherr.New(autherr.WeakPassword, "Password should be at least 6 characters.")
	}
	if len(password) > maxPasswordBytes {
		return autherr.New(autherr.InvalidArgument, "Password must be at most 72 bytes.")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
