// Package shell is the terminal front end: one screen per route, each backed
// by a form controller or an adapter.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/atinyakov/TodoKeeper/internal/client/form"
	"github.com/atinyakov/TodoKeeper/internal/client/router"
	"github.com/atinyakov/TodoKeeper/internal/client/session"
	"github.com/atinyakov/TodoKeeper/internal/models"
	"github.com/atinyakov/TodoKeeper/internal/validation"
)

// Routes of the app.
const (
	RouteLogin          router.Route = "Login"
	RouteRegister       router.Route = "Register"
	RouteForgotPassword router.Route = "ForgotPassword"
	RouteTodos          router.Route = "Todos"
	RouteAddTodo        router.Route = "AddTodo"
	RouteProfile        router.Route = "Profile"
	RouteEditProfile    router.Route = "EditProfile"
)

// Keys of the EditProfile params.
const (
	ParamProfile = "profile"
	ParamOnSave  = "onSave"
)

// Session is the session adapter as used by the screens.
type Session interface {
	form.Auth
	SignOut(ctx context.Context) session.Result
	Refresh(ctx context.Context)
	User() *models.User
	Ready() <-chan struct{}
}

// Todos is the todo collection as used by the screens.
type Todos interface {
	form.Todos
	List(ctx context.Context) ([]models.Todo, error)
	Refresh(ctx context.Context) ([]models.Todo, error)
}

// Profiles is the profile store as used by the screens.
type Profiles interface {
	Load(ctx context.Context) (models.Profile, error)
	Save(ctx context.Context, p models.Profile) (validation.Errors, error)
	Reset(ctx context.Context) error
}

// App holds the screens and what they need.
type App struct {
	prompt   *Prompter
	session  Session
	todos    Todos
	profiles Profiles
	log      *zap.Logger
}

// New creates an App reading from in and writing to out.
func New(in io.Reader, out io.Writer, s Session, todos Todos, profiles Profiles, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		prompt:   NewPrompter(in, out),
		session:  s,
		todos:    todos,
		profiles: profiles,
		log:      log,
	}
}

// Router registers every screen on a new router.
func (a *App) Router() *router.Router {
	r := router.New().
		Register(RouteLogin, a.login).
		Register(RouteRegister, a.register).
		Register(RouteForgotPassword, a.forgotPassword).
		Register(RouteTodos, a.todoList).
		Register(RouteAddTodo, a.addTodo).
		Register(RouteProfile, a.profile).
		Register(RouteEditProfile, a.editProfile)
	r.OnTransition(func(from, to router.Route) {
		fields := []zap.Field{
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Int("depth", r.Stack().Len()),
		}
		if prev := r.Stack().Peek(); prev != nil {
			fields = append(fields, zap.String("back", string(prev.Route)))
		}
		a.log.Debug("navigate", fields...)
	})
	return r
}

// Run waits for the initial auth state, then shows the todo list when a user
// is signed in and the login screen otherwise.
func (a *App) Run(ctx context.Context) error {
	select {
	case <-a.session.Ready():
	case <-ctx.Done():
		return ctx.Err()
	}
	start := RouteLogin
	if a.session.User() != nil {
		start = RouteTodos
	}
	return a.Router().Run(ctx, start, nil)
}

// leave turns the end of input into a clean exit.
func leave(err error) (router.Result, error) {
	if errors.Is(err, io.EOF) {
		return router.Exit(), nil
	}
	return router.Result{}, err
}

type field struct {
	name  string
	label string
}

func (a *App) fill(set func(field, value string), fields ...field) error {
	for _, f := range fields {
		v, err := a.prompt.Ask(f.label)
		if err != nil {
			return err
		}
		set(f.name, v)
	}
	return nil
}

func names(fields []field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.name
	}
	return out
}

func (a *App) showOutcome(out form.Outcome, fields []field) {
	if !out.Errors.Valid() {
		if out.Title != "" {
			a.prompt.Alert(out.Title, out.Message)
		}
		a.prompt.FieldErrors(out.Errors, names(fields)...)
		return
	}
	a.prompt.Alert(out.Title, out.Message)
}

var loginFields = []field{
	{validation.FieldEmail, "Email"},
	{validation.FieldPassword, "Password"},
}

func (a *App) login(ctx context.Context, _ router.Params) (router.Result, error) {
	for {
		choice, err := a.prompt.Choose("Welcome Back", []string{"Sign in", "Create an account", "Forgot password", "Quit"})
		if err != nil {
			return leave(err)
		}
		switch choice {
		case 1:
			return router.Navigate(RouteRegister, nil), nil
		case 2:
			return router.Navigate(RouteForgotPassword, nil), nil
		case 3:
			return router.Exit(), nil
		}

		f := form.NewLogin(a.session)
		if err := a.fill(f.Set, loginFields...); err != nil {
			return leave(err)
		}
		out := f.Submit(ctx)
		f.Unmount()
		if out.Done && out.Success {
			return router.Replace(RouteTodos, nil), nil
		}
		a.showOutcome(out, loginFields)
	}
}

var registerFields = []field{
	{validation.FieldDisplayName, "Full name"},
	{validation.FieldEmail, "Email"},
	{validation.FieldPassword, "Password"},
	{validation.FieldConfirmPassword, "Confirm password"},
}

func (a *App) register(ctx context.Context, _ router.Params) (router.Result, error) {
	for {
		choice, err := a.prompt.Choose("Create Account", []string{"Sign up", "Back to sign in"})
		if err != nil {
			return leave(err)
		}
		if choice == 1 {
			return router.Back(), nil
		}

		f := form.NewRegister(a.session)
		if err := a.fill(f.Set, registerFields...); err != nil {
			return leave(err)
		}
		out := f.Submit(ctx)
		f.Unmount()
		if out.Done && out.Success {
			return router.Replace(RouteTodos, nil), nil
		}
		a.showOutcome(out, registerFields)
	}
}

func (a *App) forgotPassword(ctx context.Context, _ router.Params) (router.Result, error) {
	f := form.NewReset(a.session)
	defer f.Unmount()
	for {
		choice, err := a.prompt.Choose("Reset Password", []string{"Send reset link", "Back to sign in"})
		if err != nil {
			return leave(err)
		}
		if choice == 1 {
			return router.Back(), nil
		}

		email, err := a.prompt.Ask("Email")
		if err != nil {
			return leave(err)
		}
		f.Set(validation.FieldEmail, email)
		out := f.Submit(ctx)
		a.prompt.Alert(out.Title, out.Message)
		if f.Sent() {
			a.prompt.Printf("Email Sent! We've sent a password reset link to %s\n", email)
			return router.Back(), nil
		}
	}
}

func (a *App) todoList(ctx context.Context, _ router.Params) (router.Result, error) {
	for {
		a.session.Refresh(ctx)
		if a.session.User() == nil {
			a.prompt.Alert("Signed Out", "Your session has ended. Please sign in again.")
			return router.Replace(RouteLogin, nil), nil
		}

		todos, err := a.todos.Refresh(ctx)
		if err != nil {
			a.log.Warn("refresh todos", zap.Error(err))
			if todos, err = a.todos.List(ctx); err != nil {
				return router.Result{}, fmt.Errorf("list todos: %w", err)
			}
		}
		a.printTodos(todos)

		choice, err := a.prompt.Choose("My Todos", []string{"Add todo", "Refresh", "Profile", "Sign out", "Quit"})
		if err != nil {
			return leave(err)
		}
		switch choice {
		case 0:
			return router.Navigate(RouteAddTodo, nil), nil
		case 2:
			return router.Navigate(RouteProfile, nil), nil
		case 3:
			res := a.session.SignOut(ctx)
			if res.Success {
				return router.Replace(RouteLogin, nil), nil
			}
			a.prompt.Alert(res.Title, res.Message)
		case 4:
			return router.Exit(), nil
		}
	}
}

func (a *App) printTodos(todos []models.Todo) {
	if u := a.session.User(); u != nil {
		a.prompt.Printf("\nSigned in as %s\n", u.Email)
	}
	if len(todos) == 0 {
		a.prompt.Println("No todos yet.")
		return
	}
	for _, t := range todos {
		line := fmt.Sprintf("- [%s] %s", t.Priority, t.Title)
		if t.Description != "" {
			line += ": " + t.Description
		}
		if t.Pending {
			line += " (not synced)"
		}
		a.prompt.Println(line)
	}
}

var todoFields = []field{
	{validation.FieldTitle, "Title"},
	{validation.FieldDescription, "Description"},
	{validation.FieldPriority, "Priority (high/medium/low)"},
}

func (a *App) addTodo(ctx context.Context, _ router.Params) (router.Result, error) {
	f := form.NewAddTodo(a.todos)
	defer f.Unmount()
	for {
		err := a.fill(func(name, value string) {
			if name == validation.FieldPriority && value == "" {
				return
			}
			f.Set(name, value)
		}, todoFields...)
		if err != nil {
			return leave(err)
		}
		out := f.Submit(ctx)
		if out.Done && out.Success {
			if out.Offline {
				a.prompt.Println("Saved on this device; it will be sent when the server is reachable.")
			}
			return router.Back(), nil
		}
		a.showOutcome(out, todoFields)

		choice, err := a.prompt.Choose("Add Todo", []string{"Try again", "Cancel"})
		if err != nil {
			return leave(err)
		}
		if choice == 1 {
			return router.Back(), nil
		}
	}
}

func (a *App) profile(ctx context.Context, _ router.Params) (router.Result, error) {
	for {
		p, err := a.profiles.Load(ctx)
		if err != nil {
			return router.Result{}, fmt.Errorf("load profile: %w", err)
		}
		a.prompt.Printf("\n%s\n%s\n%s\n%s\n%s\n", p.Name, p.Email, p.Phone, p.Location, p.Bio)

		choice, err := a.prompt.Choose("Profile", []string{"Edit profile", "Reset app data", "Back"})
		if err != nil {
			return leave(err)
		}
		switch choice {
		case 0:
			onSave := form.SaveFunc(func(ctx context.Context, edited models.Profile) error {
				errs, err := a.profiles.Save(ctx, edited)
				if err != nil {
					return err
				}
				if !errs.Valid() {
					return fmt.Errorf("profile rejected: %v", errs)
				}
				return nil
			})
			return router.Navigate(RouteEditProfile, router.Params{ParamProfile: p, ParamOnSave: onSave}), nil
		case 1:
			if err := a.profiles.Reset(ctx); err != nil {
				a.prompt.Alert("Error", "Failed to reset app data")
				continue
			}
			a.prompt.Alert("Success", "App data cleared")
		case 2:
			return router.Back(), nil
		}
	}
}

func (a *App) editProfile(ctx context.Context, params router.Params) (router.Result, error) {
	p, ok := router.Param[models.Profile](params, ParamProfile)
	if !ok {
		return router.Result{}, errors.New("edit profile: missing profile")
	}
	onSave, ok := router.Param[form.SaveFunc](params, ParamOnSave)
	if !ok {
		return router.Result{}, errors.New("edit profile: missing save callback")
	}

	f := form.NewProfile(p, onSave)
	defer f.Unmount()
	fields := []field{
		{validation.FieldName, "Name"},
		{validation.FieldEmail, "Email"},
		{validation.FieldPhone, "Phone"},
		{form.FieldLocation, "Location"},
		{form.FieldBio, "Bio"},
	}
	for {
		current := f.Draft()
		values := map[string]string{
			validation.FieldName:  current.Name,
			validation.FieldEmail: current.Email,
			validation.FieldPhone: current.Phone,
			form.FieldLocation:    current.Location,
			form.FieldBio:         current.Bio,
		}
		for _, fl := range fields {
			v, err := a.prompt.AskDefault(fl.label, values[fl.name])
			if err != nil {
				return leave(err)
			}
			if v != values[fl.name] {
				f.Set(fl.name, v)
			}
		}

		out := f.Submit(ctx)
		a.showOutcome(out, fields)
		if out.Done && out.Success {
			return router.Back(), nil
		}

		choice, err := a.prompt.Choose("Edit Profile", []string{"Try again", "Cancel"})
		if err != nil {
			return leave(err)
		}
		if choice == 1 {
			return router.Back(), nil
		}
	}
}
