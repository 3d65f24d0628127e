package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: limit your cors, don't get true so easy in production
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWS upgrades the request, authenticates it, and registers the
// resulting connection. An optional ?room= query param subscribes the
// connection to that room immediately; further rooms are joined via frames.
func (h *Hub) HandleWS(auth AuthenticatorFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth(r)
		if err != nil {
			log.Warn().Err(err).Msg("ws: handshake rejected")
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("ws: upgrade failed")
			return
		}

		client := NewClient(h, conn, userID)
		h.RegisterClient(client)

		if roomID := r.URL.Query().Get("room"); roomID != "" {
			if joinErr := h.Join(r.Context(), roomID, client); joinErr != nil {
				client.SendEvent(Event{
					Type:   EventError,
					RoomID: roomID,
					Data:   map[string]any{"message": joinErr.Message},
				})
			}
		}
	}
}
