// Package router maps named routes to screens and carries a parameter bag
// between them. Each screen returns where to go next; the router keeps the
// back stack.
package router

import (
	"context"
	"fmt"
)

// Route names a screen.
type Route string

// Params is the bag handed to a screen, e.g. {profile, onSave}.
type Params map[string]any

// Param returns the value of key as a T.
func Param[T any](p Params, key string) (T, bool) {
	v, ok := p[key].(T)
	return v, ok
}

// Action is what the router does once a screen returns.
type Action int

const (
	// ActionNavigate pushes the current screen and shows another one.
	ActionNavigate Action = iota
	// ActionBack returns to the previous screen with its original params.
	ActionBack
	// ActionReplace clears the back stack and shows another screen.
	ActionReplace
	// ActionExit stops the router.
	ActionExit
)

// Result is returned by a screen.
type Result struct {
	Action Action
	To     Route
	Params Params
}

// Navigate moves forward to route.
func Navigate(to Route, p Params) Result {
	return Result{Action: ActionNavigate, To: to, Params: p}
}

// Back returns to the previous screen, or exits when there is none.
func Back() Result {
	return Result{Action: ActionBack}
}

// Replace starts over at route.
func Replace(to Route, p Params) Result {
	return Result{Action: ActionReplace, To: to, Params: p}
}

// Exit stops the router.
func Exit() Result {
	return Result{Action: ActionExit}
}

// ScreenFunc runs a screen until the user leaves it.
type ScreenFunc func(ctx context.Context, params Params) (Result, error)

// TransitionFunc observes every move between screens.
type TransitionFunc func(from, to Route)

// Router runs registered screens.
type Router struct {
	screens    map[Route]ScreenFunc
	transition TransitionFunc
	stack      *Stack
}

// New creates a Router with an empty back stack.
func New() *Router {
	return &Router{
		screens: make(map[Route]ScreenFunc),
		stack:   NewStack(),
	}
}

// Register adds a screen.
func (r *Router) Register(route Route, fn ScreenFunc) *Router {
	r.screens[route] = fn
	return r
}

// OnTransition sets a hook called after each move.
func (r *Router) OnTransition(fn TransitionFunc) *Router {
	r.transition = fn
	return r
}

// Stack returns the back stack.
func (r *Router) Stack() *Stack {
	return r.stack
}

// Run shows start and follows the screens' results until one exits, the
// back stack runs out, a screen fails or ctx is done.
func (r *Router) Run(ctx context.Context, start Route, params Params) error {
	current := Entry{Route: start, Params: params}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fn, ok := r.screens[current.Route]
		if !ok {
			return fmt.Errorf("router: route %q not registered", current.Route)
		}

		res, err := fn(ctx, current.Params)
		if err != nil {
			return fmt.Errorf("router: screen %q error: %w", current.Route, err)
		}

		var next Entry
		switch res.Action {
		case ActionNavigate:
			r.stack.Push(current.Route, current.Params)
			next = Entry{Route: res.To, Params: res.Params}
		case ActionBack:
			if r.stack.IsEmpty() {
				return nil
			}
			next = *r.stack.Pop()
		case ActionReplace:
			r.stack.Clear()
			next = Entry{Route: res.To, Params: res.Params}
		case ActionExit:
			return nil
		default:
			return fmt.Errorf("router: screen %q returned unknown action %d", current.Route, res.Action)
		}

		if r.transition != nil {
			r.transition(current.Route, next.Route)
		}
		current = next
	}
}
