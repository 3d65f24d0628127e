package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/kshathishka/collabstudy/internal/handlers"
	hub_handler "github.com/kshathishka/collabstudy/internal/handlers/hub-handler"
	"github.com/kshathishka/collabstudy/internal/websocket"
)

func HubRouter(r chi.Router, wsHub *websocket.Hub) {
	hubHandler := hub_handler.NewHubHandler(wsHub)
	r.Route("/api/v1", func(r chi.Router) {
		// Health stats
		r.Get("/health", hubHandler.HandleHealth)
		r.Get("/stats", handlers.WrapHandler(hubHandler.HandleGetStats))

		r.Route("/rooms/{roomId}/hub", func(r chi.Router) {
			r.Get("/stats", handlers.WrapHandler(hubHandler.HandleGetRoomStats))
			r.Get("/clients", handlers.WrapHandler(hubHandler.HandleGetRoomClients))
		})

		r.Get("/users/{userId}/status", handlers.WrapHandler(hubHandler.HandleGetUserStatus))
	})
}
