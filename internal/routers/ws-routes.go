package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/kshathishka/collabstudy/internal/websocket"
	"github.com/kshathishka/collabstudy/state"
)

func WebSocketRouter(r chi.Router, state *state.AppState, hub *websocket.Hub) {
	auth := websocket.JWTWebSocketAuth(state.JwtSecret.Public)
	r.Get("/ws", hub.HandleWS(auth))
}
