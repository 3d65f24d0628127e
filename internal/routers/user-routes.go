package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/kshathishka/collabstudy/internal/handlers"
	user_handler "github.com/kshathishka/collabstudy/internal/handlers/user-handler"
	"github.com/kshathishka/collabstudy/internal/middleware"
	"github.com/kshathishka/collabstudy/state"
)

func UserRouter(r chi.Router, state *state.AppState) {
	userHandler := user_handler.NewUserHandler(state)

	r.Post("/api/v1/users", handlers.WrapHandler(userHandler.Register))
	r.Post("/api/v1/users/login", handlers.WrapHandler(userHandler.Login))

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))
		protected.Get("/api/v1/users/{userId}", handlers.WrapHandler(userHandler.GetUser))
	})
}
