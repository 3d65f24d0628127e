package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kshathishka/collabstudy/internal/middleware"
	"github.com/kshathishka/collabstudy/internal/websocket"
	"github.com/kshathishka/collabstudy/state"
)

func NewRouter(state *state.AppState, hub *websocket.Hub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithRequestId)

	UserRouter(r, state)
	RoomRouter(r, state)
	MessageRouter(r, state, hub)
	NotificationRouter(r, state)
	SessionRouter(r, state)
	NoteRouter(r, state)
	HubRouter(r, hub)
	WebSocketRouter(r, state, hub)

	return r
}
