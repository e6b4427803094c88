package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/TodoKeeper/internal/middleware"
)

// NewRouter constructs the provider API.
//
// Routes:
//
//	POST /api/auth/signup        → authHandler.SignUp
//	POST /api/auth/signin        → authHandler.SignIn
//	POST /api/auth/reset         → authHandler.Reset
//	POST /api/auth/reset/confirm → authHandler.ConfirmReset
//	POST /api/auth/signout       → authHandler.SignOut (bearer)
//	GET  /api/auth/me            → authHandler.Me (bearer)
//	GET  /api/todos              → todoHandler.List (bearer)
//	POST /api/todos              → todoHandler.Add (bearer)
func NewRouter(
	authHandler *AuthHandler,
	todoHandler *TodoHandler,
	auth middleware.Authenticator,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
			r.Post("/reset", authHandler.Reset)
			r.Post("/reset/confirm", authHandler.ConfirmReset)

			r.Group(func(r chi.Router) {
				r.Use(middleware.TokenAuth(auth))
				r.Post("/signout", authHandler.SignOut)
				r.Get("/me", authHandler.Me)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.TokenAuth(auth))
			r.Get("/todos", todoHandler.List)
			r.Post("/todos", todoHandler.Add)
		})
	})

	return r
}
