package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	routeProfile Route = "Profile"
	routeEdit    Route = "EditProfile"
)

func TestRouter_ParamsAndBack(t *testing.T) {
	r := New()
	var saved string
	profileCalls := 0
	var moves [][2]Route

	r.Register(routeProfile, func(ctx context.Context, p Params) (Result, error) {
		profileCalls++
		if profileCalls == 1 {
			return Navigate(routeEdit, Params{
				"profile": "John Doe",
				"onSave":  func(name string) { saved = name },
			}), nil
		}
		return Exit(), nil
	})
	r.Register(routeEdit, func(ctx context.Context, p Params) (Result, error) {
		name, ok := Param[string](p, "profile")
		require.True(t, ok)
		onSave, ok := Param[func(string)](p, "onSave")
		require.True(t, ok)
		onSave(name + " Jr.")
		return Back(), nil
	})
	r.OnTransition(func(from, to Route) { moves = append(moves, [2]Route{from, to}) })

	require.NoError(t, r.Run(context.Background(), routeProfile, nil))
	assert.Equal(t, "John Doe Jr.", saved)
	assert.Equal(t, 2, profileCalls)
	assert.Equal(t, [][2]Route{{routeProfile, routeEdit}, {routeEdit, routeProfile}}, moves)
	assert.True(t, r.Stack().IsEmpty())
}

func TestRouter_BackOnEmptyStackExits(t *testing.T) {
	r := New()
	r.Register(routeProfile, func(ctx context.Context, p Params) (Result, error) {
		return Back(), nil
	})
	assert.NoError(t, r.Run(context.Background(), routeProfile, nil))
}

func TestRouter_ReplaceClearsStack(t *testing.T) {
	r := New()
	calls := map[Route]int{}
	r.Register("Login", func(ctx context.Context, p Params) (Result, error) {
		calls["Login"]++
		if calls["Login"] == 1 {
			return Navigate("Register", nil), nil
		}
		return Exit(), nil
	})
	r.Register("Register", func(ctx context.Context, p Params) (Result, error) {
		calls["Register"]++
		return Replace("Todos", nil), nil
	})
	r.Register("Todos", func(ctx context.Context, p Params) (Result, error) {
		calls["Todos"]++
		assert.Equal(t, 0, r.Stack().Len())
		return Back(), nil
	})

	require.NoError(t, r.Run(context.Background(), "Login", nil))
	assert.Equal(t, map[Route]int{"Login": 1, "Register": 1, "Todos": 1}, calls)
}

func TestRouter_Errors(t *testing.T) {
	r := New()
	err := r.Run(context.Background(), "Missing", nil)
	assert.ErrorContains(t, err, `route "Missing" not registered`)

	boom := errors.New("boom")
	r.Register(routeProfile, func(ctx context.Context, p Params) (Result, error) { return Result{}, boom })
	assert.ErrorIs(t, r.Run(context.Background(), routeProfile, nil), boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Run(ctx, routeProfile, nil), context.Canceled)
}

func TestStack(t *testing.T) {
	s := NewStack()
	assert.Nil(t, s.Pop())
	assert.Nil(t, s.Peek())

	s.Push("A", Params{"n": 1})
	s.Push("B", nil)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, Route("B"), s.Peek().Route)

	e := s.Pop()
	require.NotNil(t, e)
	assert.Equal(t, Route("B"), e.Route)
	n, ok := Param[int](s.Peek().Params, "n")
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	s.Clear()
	assert.True(t, s.IsEmpty())
}
