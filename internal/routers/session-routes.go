package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/kshathishka/collabstudy/internal/handlers"
	session_handler "github.com/kshathishka/collabstudy/internal/handlers/session-handler"
	"github.com/kshathishka/collabstudy/internal/middleware"
	"github.com/kshathishka/collabstudy/state"
)

func SessionRouter(r chi.Router, state *state.AppState) {
	sessionHandler := session_handler.NewSessionHandler(state)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))

		protected.Post("/api/v1/sessions", handlers.WrapHandler(sessionHandler.CreateSession))
		protected.Get("/api/v1/rooms/{roomId}/sessions", handlers.WrapHandler(sessionHandler.ListRoomSessions))

		protected.Route("/api/v1/sessions/{sessionId}", func(r chi.Router) {
			r.Get("/", handlers.WrapHandler(sessionHandler.GetSession))
			r.Post("/start", handlers.WrapHandler(sessionHandler.StartSession))
			r.Post("/end", handlers.WrapHandler(sessionHandler.EndSession))
			r.Post("/cancel", handlers.WrapHandler(sessionHandler.CancelSession))
		})
	})
}
