package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/kshathishka/collabstudy/config"
	"github.com/kshathishka/collabstudy/internal/handlers"
	message_handler "github.com/kshathishka/collabstudy/internal/handlers/message-handler"
	"github.com/kshathishka/collabstudy/internal/middleware"
	"github.com/kshathishka/collabstudy/internal/websocket"
	"github.com/kshathishka/collabstudy/state"
)

func MessageRouter(r chi.Router, state *state.AppState, hub *websocket.Hub) {
	messageHandler := message_handler.NewMessageHandler(state, hub, config.Conf.CHAT.MessagePageSize)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))

		protected.Route("/api/v1/rooms/{roomId}/messages", func(r chi.Router) {
			r.Post("/", handlers.WrapHandler(messageHandler.SendMessage))
			r.Get("/", handlers.WrapHandler(messageHandler.ListMessages))

			r.Route("/{messageId}", func(r chi.Router) {
				r.Get("/", handlers.WrapHandler(messageHandler.GetMessage))
				r.Put("/", handlers.WrapHandler(messageHandler.EditMessage))
				r.Delete("/", handlers.WrapHandler(messageHandler.DeleteMessage))
				r.Post("/reactions", handlers.WrapHandler(messageHandler.ToggleReaction))
			})
		})
	})
}
