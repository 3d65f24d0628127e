package hub_handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/internal/handlers"
	"github.com/kshathishka/collabstudy/internal/websocket"
)

type HubHandler struct {
	Hub *websocket.Hub
}

func NewHubHandler(hub *websocket.Hub) *HubHandler {
	return &HubHandler{
		Hub: hub,
	}
}

func (h *HubHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "collabstudy-server",
	})
}

func (h *HubHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	stats := h.Hub.GetHubStats()
	handlers.WriteResponse(w, r, "get websocket stats", stats)
	return nil
}

func (h *HubHandler) HandleGetRoomStats(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID := chi.URLParam(r, "roomId")
	stats := h.Hub.GetRoomStats(roomID)
	handlers.WriteResponse(w, r, "get websocket room stats", stats)
	return nil
}

func (h *HubHandler) HandleGetRoomClients(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID := chi.URLParam(r, "roomId")
	clients := h.Hub.GetRoomClients(roomID)

	type ClientInfo struct {
		ID          string    `json:"id"`
		UserID      string    `json:"user_id"`
		ConnectedAt time.Time `json:"connected_at"`
		LastSeen    time.Time `json:"last_seen"`
	}

	clientList := make([]ClientInfo, 0, len(clients))
	for _, client := range clients {
		clientList = append(clientList, ClientInfo{
			ID:          client.ID,
			UserID:      client.UserID,
			ConnectedAt: client.ConnectedAt,
			LastSeen:    client.GetLastSeen(),
		})
	}

	handlers.WriteResponse(w, r, "get websocket room clients", clientList)
	return nil
}

func (h *HubHandler) HandleGetUserStatus(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID := chi.URLParam(r, "userId")
	connections := h.Hub.GetUserClients(userID)

	status := "offline"
	if len(connections) > 0 {
		status = "online"
	}

	handlers.WriteResponse(w, r, "get user status", map[string]any{
		"user_id":     userID,
		"status":      status,
		"connections": len(connections),
	})
	return nil
}
