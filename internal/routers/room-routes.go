package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/kshathishka/collabstudy/internal/handlers"
	room_handler "github.com/kshathishka/collabstudy/internal/handlers/room-handler"
	"github.com/kshathishka/collabstudy/internal/middleware"
	"github.com/kshathishka/collabstudy/state"
)

func RoomRouter(r chi.Router, state *state.AppState) {
	roomHandler := room_handler.NewRoomHandler(state)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))

		protected.Route("/api/v1/rooms", func(r chi.Router) {
			r.Post("/", handlers.WrapHandler(roomHandler.CreateRoom))
			r.Get("/", handlers.WrapHandler(roomHandler.ListRooms))

			r.Route("/{roomId}", func(r chi.Router) {
				r.Get("/", handlers.WrapHandler(roomHandler.GetRoom))
				r.Put("/", handlers.WrapHandler(roomHandler.UpdateRoom))
				r.Post("/invite", handlers.WrapHandler(roomHandler.InviteUser))
				r.Post("/leave", handlers.WrapHandler(roomHandler.LeaveRoom))
				r.Get("/members", handlers.WrapHandler(roomHandler.ListMembers))
			})
		})
	})
}
