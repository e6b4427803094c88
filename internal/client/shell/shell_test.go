package shell

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atinyakov/TodoKeeper/internal/client/kvstore"
	"github.com/atinyakov/TodoKeeper/internal/client/profile"
	"github.com/atinyakov/TodoKeeper/internal/client/router"
	"github.com/atinyakov/TodoKeeper/internal/client/session"
	"github.com/atinyakov/TodoKeeper/internal/client/todo"
	"github.com/atinyakov/TodoKeeper/internal/models"
)

type fakeSession struct {
	SignInFunc  func(ctx context.Context, email, password string) session.Result
	SignUpFunc  func(ctx context.Context, email, password, displayName string) session.Result
	ResetFunc   func(ctx context.Context, email string) session.Result
	SignOutFunc func(ctx context.Context) session.Result
	RefreshFunc func(ctx context.Context)

	user  *models.User
	ready chan struct{}
}

func newFakeSession(u *models.User) *fakeSession {
	ready := make(chan struct{})
	close(ready)
	return &fakeSession{user: u, ready: ready}
}

func (f *fakeSession) SignIn(ctx context.Context, email, password string) session.Result {
	return f.SignInFunc(ctx, email, password)
}
func (f *fakeSession) SignUp(ctx context.Context, email, password, displayName string) session.Result {
	return f.SignUpFunc(ctx, email, password, displayName)
}
func (f *fakeSession) ResetPassword(ctx context.Context, email string) session.Result {
	return f.ResetFunc(ctx, email)
}
func (f *fakeSession) SignOut(ctx context.Context) session.Result {
	return f.SignOutFunc(ctx)
}
func (f *fakeSession) Refresh(ctx context.Context) {
	if f.RefreshFunc != nil {
		f.RefreshFunc(ctx)
	}
}
func (f *fakeSession) Loading() bool { return false }
func (f *fakeSession) User() *models.User { return f.user }
func (f *fakeSession) Ready() <-chan struct{} { return f.ready }

type fixture struct {
	app      *App
	out      *bytes.Buffer
	todos    *todo.Collection
	profiles *profile.Repository
}

func newFixture(t *testing.T, s Session, input string) *fixture {
	t.Helper()
	store := kvstore.New(kvstore.NewFileBackend(filepath.Join(t.TempDir(), "storage.json")), zap.NewNop())
	todos := todo.New(store, nil, zap.NewNop())
	profiles := profile.New(store)
	out := &bytes.Buffer{}
	return &fixture{
		app:      New(strings.NewReader(input), out, s, todos, profiles, zap.NewNop()),
		out:      out,
		todos:    todos,
		profiles: profiles,
	}
}

func lines(in ...string) string {
	return strings.Join(in, "\n") + "\n"
}

func TestRun_SignInThenQuit(t *testing.T) {
	s := newFakeSession(nil)
	var gotEmail, gotPassword string
	s.SignInFunc = func(ctx context.Context, email, password string) session.Result {
		gotEmail, gotPassword = email, password
		s.user = &models.User{ID: "u1", Email: email}
		return session.Result{Success: true}
	}
	f := newFixture(t, s, lines("1", "jane@example.com", "secret1", "5"))

	require.NoError(t, f.app.Run(context.Background()))
	assert.Equal(t, "jane@example.com", gotEmail)
	assert.Equal(t, "secret1", gotPassword)
	assert.Contains(t, f.out.String(), "Signed in as jane@example.com")
	assert.Contains(t, f.out.String(), "No todos yet.")
}

func TestLogin_ValidationErrors(t *testing.T) {
	s := newFakeSession(nil)
	s.SignInFunc = func(ctx context.Context, email, password string) session.Result {
		t.Fatal("sign in must not be called")
		return session.Result{}
	}
	f := newFixture(t, s, lines("1", "bad", "123", "4"))

	require.NoError(t, f.app.Run(context.Background()))
	assert.Contains(t, f.out.String(), "email: Email is invalid")
	assert.Contains(t, f.out.String(), "password: Password must be at least 6 characters")
}

func TestLogin_ProviderFailure(t *testing.T) {
	s := newFakeSession(nil)
	s.SignInFunc = func(ctx context.Context, email, password string) session.Result {
		return session.Result{Title: "Sign In Error", Message: "Incorrect password"}
	}
	f := newFixture(t, s, lines("1", "jane@example.com", "secret1", "4"))

	require.NoError(t, f.app.Run(context.Background()))
	assert.Contains(t, f.out.String(), "[Sign In Error] Incorrect password")
	assert.NotContains(t, f.out.String(), "My Todos")
}

func TestRegister_PasswordMismatchThenSuccess(t *testing.T) {
	s := newFakeSession(nil)
	calls := 0
	s.SignUpFunc = func(ctx context.Context, email, password, displayName string) session.Result {
		calls++
		assert.Equal(t, "Jane", displayName)
		return session.Result{Success: true}
	}
	f := newFixture(t, s, lines(
		"2",
		"1", "Jane", "jane@example.com", "secret1", "secret2",
		"1", "Jane", "jane@example.com", "secret1", "secret1",
		"5",
	))

	require.NoError(t, f.app.Run(context.Background()))
	assert.Equal(t, 1, calls)
	assert.Contains(t, f.out.String(), "confirmPassword: Passwords do not match")
	assert.Contains(t, f.out.String(), "My Todos")
}

func TestForgotPassword_SentGoesBack(t *testing.T) {
	s := newFakeSession(nil)
	s.ResetFunc = func(ctx context.Context, email string) session.Result {
		return session.Result{Success: true, Title: "Password Reset", Message: "Password reset email sent! Check your inbox."}
	}
	f := newFixture(t, s, lines("3", "1", "jane@example.com", "4"))

	require.NoError(t, f.app.Run(context.Background()))
	out := f.out.String()
	assert.Contains(t, out, "[Password Reset] Password reset email sent! Check your inbox.")
	assert.Contains(t, out, "Email Sent! We've sent a password reset link to jane@example.com")
	assert.Equal(t, 2, strings.Count(out, "Welcome Back"))
}

func TestForgotPassword_InvalidEmail(t *testing.T) {
	s := newFakeSession(nil)
	f := newFixture(t, s, lines("3", "1", "nope", "2", "4"))

	require.NoError(t, f.app.Run(context.Background()))
	assert.Contains(t, f.out.String(), "[Error] Please enter a valid email address")
}

func TestTodos_AddAndList(t *testing.T) {
	s := newFakeSession(&models.User{ID: "u1", Email: "jane@example.com"})
	f := newFixture(t, s, lines("1", "Buy milk", "2 liters", "high", "1", "Call mom", "", "", "5"))

	require.NoError(t, f.app.Run(context.Background()))
	assert.Contains(t, f.out.String(), "- [high] Buy milk: 2 liters")
	assert.Contains(t, f.out.String(), "- [medium] Call mom")

	todos, err := f.todos.List(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, models.PriorityMedium, todos[1].Priority)
}

func TestAddTodo_InvalidPriorityCancel(t *testing.T) {
	s := newFakeSession(&models.User{ID: "u1"})
	f := newFixture(t, s, lines("1", "Buy milk", "", "urgent", "2", "5"))

	require.NoError(t, f.app.Run(context.Background()))
	assert.Contains(t, f.out.String(), "[Error] Priority must be high, medium or low")

	todos, err := f.todos.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestProfile_EditSavesAndReturns(t *testing.T) {
	s := newFakeSession(&models.User{ID: "u1"})
	f := newFixture(t, s, lines("3", "1", "Jane Roe", "", "", "", "", "3", "5"))

	require.NoError(t, f.app.Run(context.Background()))
	assert.Contains(t, f.out.String(), "[Success] Profile updated successfully!")

	p, err := f.profiles.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", p.Name)
	assert.Equal(t, models.DefaultProfile().Email, p.Email)
}

func TestProfile_EditValidationError(t *testing.T) {
	s := newFakeSession(&models.User{ID: "u1"})
	f := newFixture(t, s, lines("3", "1", "", "not-an-email", "", "", "", "2", "3", "5"))

	require.NoError(t, f.app.Run(context.Background()))
	out := f.out.String()
	assert.Contains(t, out, "[Validation Error] Please fix the errors and try again")
	assert.Contains(t, out, "email: Email is invalid")

	p, err := f.profiles.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProfile(), p)
}

func TestTodos_SignOut(t *testing.T) {
	s := newFakeSession(&models.User{ID: "u1"})
	s.SignOutFunc = func(ctx context.Context) session.Result {
		s.user = nil
		return session.Result{Success: true}
	}
	f := newFixture(t, s, lines("4", "4"))

	require.NoError(t, f.app.Run(context.Background()))
	assert.Contains(t, f.out.String(), "Welcome Back")
}

func TestTodos_EndedSessionReturnsToLogin(t *testing.T) {
	s := newFakeSession(&models.User{ID: "u1"})
	refreshes := 0
	s.RefreshFunc = func(ctx context.Context) {
		refreshes++
		if refreshes == 2 {
			s.user = nil
		}
	}
	f := newFixture(t, s, lines("2", "4"))

	require.NoError(t, f.app.Run(context.Background()))
	assert.Equal(t, 2, refreshes)
	assert.Contains(t, f.out.String(), "[Signed Out] Your session has ended. Please sign in again.")
	assert.Contains(t, f.out.String(), "Welcome Back")
}

func TestRun_EndOfInputExits(t *testing.T) {
	f := newFixture(t, newFakeSession(nil), "")
	assert.NoError(t, f.app.Run(context.Background()))
}

func TestEditProfile_MissingParams(t *testing.T) {
	f := newFixture(t, newFakeSession(nil), "")
	_, err := f.app.editProfile(context.Background(), router.Params{})
	assert.ErrorContains(t, err, "missing profile")
}

func TestRouter_LogsNavigation(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	f := newFixture(t, newFakeSession(&models.User{ID: "u1"}), lines("3", "3", "5"))
	f.app.log = zap.New(core)

	require.NoError(t, f.app.Run(context.Background()))

	moves := logs.FilterMessage("navigate").All()
	require.Len(t, moves, 2)
	toProfile := moves[0].ContextMap()
	assert.Equal(t, "Profile", toProfile["to"])
	assert.Equal(t, "Todos", toProfile["back"])
	assert.EqualValues(t, 1, toProfile["depth"])

	back := moves[1].ContextMap()
	assert.Equal(t, "Todos", back["to"])
	assert.NotContains(t, back, "back")
}
