// Package session adapts the authentication provider for the screens. It
// owns the current user handle, translates provider failures into
// user-facing messages and never lets a provider error escape.
package session

import (
	"context"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/atinyakov/TodoKeeper/internal/models"
)

// Provider is the authentication backend.
type Provider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*models.User, error)
	SignOut(ctx context.Context) error
	SendPasswordResetEmail(ctx context.Context, email string) error
	// CurrentUser asks the provider who is signed in; nil when nobody is.
	CurrentUser(ctx context.Context) (*models.User, error)
	// Subscribe delivers the current user and every later change until the
	// returned cancel function is called.
	Subscribe() (<-chan *models.User, func())
}

// Result is the outcome of a session operation. Title and Message are meant
// for an alert.
type Result struct {
	Success bool
	Title   string
	Message string
	User    *models.User
}

// Session is the single owner of the signed in state.
type Session struct {
	provider Provider
	log      *zap.Logger
	messages *Messages

	mu   sync.RWMutex
	user *models.User

	loading      *atomic.Bool
	initializing *atomic.Bool

	ready       chan struct{}
	readyOnce   sync.Once
	done        chan struct{}
	unsubscribe func()
}

// New subscribes to p for the lifetime of the Session. A nil msgs renders
// English texts.
func New(p Provider, log *zap.Logger, msgs *Messages) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	if msgs == nil {
		msgs = english()
	}
	s := &Session{
		provider:     p,
		log:          log,
		messages:     msgs,
		loading:      atomic.NewBool(true),
		initializing: atomic.NewBool(true),
		ready:        make(chan struct{}),
		done:         make(chan struct{}),
	}

	changes, cancel := p.Subscribe()
	s.unsubscribe = cancel
	go s.watch(changes)
	return s
}

func (s *Session) watch(changes <-chan *models.User) {
	defer close(s.done)
	for u := range changes {
		s.mu.Lock()
		s.user = u
		s.mu.Unlock()

		s.initializing.Store(false)
		s.loading.Store(false)
		s.readyOnce.Do(func() { close(s.ready) })
	}
}

// Ready is closed once the provider has reported the initial state.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// User returns the signed in user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading reports whether a sign up, sign in or sign out is in flight, or
// the initial state is still unknown.
func (s *Session) Loading() bool {
	return s.loading.Load()
}

// Initializing reports whether the provider has not yet reported any state.
func (s *Session) Initializing() bool {
	return s.initializing.Load()
}

// Close releases the provider subscription.
func (s *Session) Close() {
	s.unsubscribe()
	<-s.done
}

// SignUp creates an account with a display name.
func (s *Session) SignUp(ctx context.Context, email, password, displayName string) Result {
	s.loading.Store(true)
	defer s.loading.Store(false)

	user, err := s.provider.CreateUser(ctx, email, password, displayName)
	if err != nil {
		s.log.Warn("sign up failed", zap.Error(err))
		return Result{Title: s.messages.text(titleSignUpError), Message: s.messages.lookup(signUpTable, err)}
	}
	s.setUser(user)
	return Result{Success: true, User: user}
}

// SignIn authenticates with email and password.
func (s *Session) SignIn(ctx context.Context, email, password string) Result {
	s.loading.Store(true)
	defer s.loading.Store(false)

	user, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		s.log.Warn("sign in failed", zap.Error(err))
		return Result{Title: s.messages.text(titleSignInError), Message: s.messages.lookup(signInTable, err)}
	}
	s.setUser(user)
	return Result{Success: true, User: user}
}

// SignOut ends the session.
func (s *Session) SignOut(ctx context.Context) Result {
	s.loading.Store(true)
	defer s.loading.Store(false)

	if err := s.provider.SignOut(ctx); err != nil {
		s.log.Warn("sign out failed", zap.Error(err))
		return Result{Title: s.messages.text(titleSignOutError), Message: s.messages.lookup(signOutTable, err)}
	}
	s.setUser(nil)
	return Result{Success: true}
}

// ResetPassword asks the provider to mail a reset link. It does not touch
// the loading flag.
func (s *Session) ResetPassword(ctx context.Context, email string) Result {
	if err := s.provider.SendPasswordResetEmail(ctx, email); err != nil {
		s.log.Warn("password reset failed", zap.Error(err))
		return Result{Title: s.messages.text(titleResetError), Message: s.messages.lookup(resetTable, err)}
	}
	return Result{Success: true, Title: s.messages.text(titleReset), Message: s.messages.text(msgResetSent)}
}

// Refresh asks the provider who is signed in. A session the provider has
// ended becomes nil; when the provider cannot answer the user is kept.
func (s *Session) Refresh(ctx context.Context) {
	user, err := s.provider.CurrentUser(ctx)
	if err != nil {
		s.log.Warn("session refresh failed", zap.Error(err))
		return
	}
	s.setUser(user)
}

func (s *Session) setUser(u *models.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}
