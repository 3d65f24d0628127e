package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	app_error "github.com/kshathishka/collabstudy/internal/errors"
)

// Membership is the read-only view of room membership the hub consults
// before letting a connection subscribe to a room.
type Membership interface {
	IsMember(ctx context.Context, roomID, userID string) (bool, *app_error.AppError)
}

type Hub struct {
	// room subscriptions, all mutation through Join/Leave/unregisterClient
	rooms       map[string]map[*Client]struct{}
	clientRooms map[*Client]map[string]struct{}
	mu          sync.RWMutex

	// userID -> [clients], for direct notification pushes
	userClients map[string][]*Client
	userMu      sync.RWMutex

	membership Membership
	typing     *typingTracker

	ctx    context.Context
	cancel context.CancelFunc

	stats   HubStats
	statsMu sync.RWMutex

	cleanupTicker *time.Ticker
}

type HubStats struct {
	TotalRooms       int       `json:"total_rooms"`
	TotalClients     int       `json:"total_clients"`
	TotalConnections int64     `json:"total_connections"`
	EventsSent       int64     `json:"events_sent"`
	LastReset        time.Time `json:"last_reset"`
}

func NewHub(membership Membership, typingWindow time.Duration) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	hub := &Hub{
		rooms:       make(map[string]map[*Client]struct{}),
		clientRooms: make(map[*Client]map[string]struct{}),
		userClients: make(map[string][]*Client),
		membership:  membership,
		ctx:         ctx,
		cancel:      cancel,
		stats: HubStats{
			LastReset: time.Now(),
		},
		cleanupTicker: time.NewTicker(1 * time.Minute),
	}

	hub.typing = newTypingTracker(hub, typingWindow)
	go hub.typing.run(ctx)
	go hub.cleanupRoutine()

	return hub
}

// RegisterClient tracks a freshly upgraded connection and starts its pumps.
// Room subscriptions happen separately through Join.
func (h *Hub) RegisterClient(client *Client) {
	h.userMu.Lock()
	h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
	h.userMu.Unlock()

	h.updateStats(func(stats *HubStats) {
		stats.TotalConnections++
	})

	client.Start()

	log.Info().Str("clientID", client.ID).Str("userID", client.UserID).Msg("ws: client registered")
}

// Join subscribes the connection to a room. Fails with Forbidden when the
// connection's user is not a member; joining twice is a no-op.
func (h *Hub) Join(ctx context.Context, roomID string, client *Client) *app_error.AppError {
	ok, err := h.membership.IsMember(ctx, roomID, client.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return app_error.NewForbiddenError("user is not a member of this room", "room")
	}

	h.mu.Lock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	if _, joined := h.rooms[roomID][client]; joined {
		h.mu.Unlock()
		return nil
	}
	h.rooms[roomID][client] = struct{}{}
	if h.clientRooms[client] == nil {
		h.clientRooms[client] = make(map[string]struct{})
	}
	h.clientRooms[client][roomID] = struct{}{}
	roomSize := len(h.rooms[roomID])
	h.mu.Unlock()

	h.broadcastUserStatus(roomID, client.UserID, true)

	log.Info().Str("roomID", roomID).Str("clientID", client.ID).Str("userID", client.UserID).Int("roomSize", roomSize).Msg("ws: client joined room")
	return nil
}

// Leave drops the room subscription. Leaving a room the connection never
// joined is a no-op.
func (h *Hub) Leave(roomID string, client *Client) {
	h.mu.Lock()
	clients, ok := h.rooms[roomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, joined := clients[client]; !joined {
		h.mu.Unlock()
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.rooms, roomID)
	}
	if rooms := h.clientRooms[client]; rooms != nil {
		delete(rooms, roomID)
	}
	h.mu.Unlock()

	h.typing.stopTyping(roomID, client)

	if !h.IsUserOnlineInRoom(roomID, client.UserID) {
		h.broadcastUserStatus(roomID, client.UserID, false)
	}

	log.Info().Str("roomID", roomID).Str("clientID", client.ID).Str("userID", client.UserID).Msg("ws: client left room")
}

// Typing records a start-typing signal and fans out user-typing to the other
// members of the room. The originating connection never sees its own typing
// events.
func (h *Hub) Typing(roomID string, client *Client) {
	h.typing.typing(roomID, client)
}

func (h *Hub) StopTyping(roomID string, client *Client) {
	h.typing.stopTyping(roomID, client)
}

// Publish fans an event out to every connection joined to the room.
// Delivery is best-effort per subscriber; a slow or broken subscriber is
// dropped without affecting the others. Events from a single publishing path
// reach each subscriber in publish order.
func (h *Hub) Publish(roomID string, event Event) {
	h.publish(roomID, event, nil)
}

// PublishExcept is Publish minus one connection, used for typing events so
// the typist does not echo to themselves.
func (h *Hub) PublishExcept(roomID string, event Event, except *Client) {
	h.publish(roomID, event, except)
}

func (h *Hub) publish(roomID string, event Event, except *Client) {
	event.RoomID = roomID
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("roomID", roomID).Msg("ws: failed to marshal event")
		return
	}

	// snapshot under lock, send outside it
	h.mu.RLock()
	var targets []*Client
	if clients, ok := h.rooms[roomID]; ok {
		targets = make([]*Client, 0, len(clients))
		for client := range clients {
			if except != nil && client == except {
				continue
			}
			if client.IsClientActive() {
				targets = append(targets, client)
			}
		}
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	for _, client := range targets {
		select {
		case client.Send <- data:
		case <-client.ctx.Done():
		default:
			// slow consumer: drop it rather than stall the room
			log.Warn().Str("roomID", roomID).Str("clientID", client.ID).Msg("ws: slow consumer, dropping connection")
			go client.Close()
		}
	}

	h.updateStats(func(stats *HubStats) {
		stats.EventsSent += int64(len(targets))
	})

	log.Debug().Str("roomID", roomID).Int("targets", len(targets)).Str("eventType", event.Type).Msg("ws: publish completed")
}

// PublishToUser delivers an event to every live connection of one user,
// regardless of room. Used for notification pushes.
func (h *Hub) PublishToUser(userID string, event Event) {
	h.userMu.RLock()
	clients := make([]*Client, len(h.userClients[userID]))
	copy(clients, h.userClients[userID])
	h.userMu.RUnlock()

	if len(clients) == 0 {
		return
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("ws: failed to marshal user event")
		return
	}

	for _, client := range clients {
		if !client.IsClientActive() {
			continue
		}

		select {
		case client.Send <- data:
		case <-client.ctx.Done():
		default:
			log.Warn().Str("userID", userID).Str("clientID", client.ID).Msg("ws: user client buffer full")
		}
	}
}

// unregisterClient removes every trace of a connection: room subscriptions,
// user tracking, typing state. Called from Client.Close.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	var roomIDs []string
	for roomID := range h.clientRooms[client] {
		roomIDs = append(roomIDs, roomID)
		if clients, ok := h.rooms[roomID]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	delete(h.clientRooms, client)
	h.mu.Unlock()

	h.userMu.Lock()
	userClients := h.userClients[client.UserID]
	for i, c := range userClients {
		if c == client {
			h.userClients[client.UserID] = append(userClients[:i], userClients[i+1:]...)
			break
		}
	}
	if len(h.userClients[client.UserID]) == 0 {
		delete(h.userClients, client.UserID)
	}
	h.userMu.Unlock()

	h.typing.dropClient(client)

	for _, roomID := range roomIDs {
		if !h.IsUserOnlineInRoom(roomID, client.UserID) {
			h.broadcastUserStatus(roomID, client.UserID, false)
		}
	}

	log.Info().Str("clientID", client.ID).Str("userID", client.UserID).Msg("ws: client unregistered")
}

// Utility methods

func (h *Hub) GetRoomClients(roomID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var clients []*Client
	if roomClients, ok := h.rooms[roomID]; ok {
		for client := range roomClients {
			if client.IsClientActive() {
				clients = append(clients, client)
			}
		}
	}

	return clients
}

func (h *Hub) GetUserClients(userID string) []*Client {
	h.userMu.RLock()
	defer h.userMu.RUnlock()

	var activeClients []*Client
	for _, client := range h.userClients[userID] {
		if client.IsClientActive() {
			activeClients = append(activeClients, client)
		}
	}

	return activeClients
}

func (h *Hub) IsUserOnlineInRoom(roomID, userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return false
	}

	for client := range roomClients {
		if client.UserID == userID && client.IsClientActive() {
			return true
		}
	}

	return false
}

func (h *Hub) GetRoomStats(roomID string) map[string]any {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := map[string]any{
		"room_id": roomID,
		"exists":  false,
	}

	if clients, ok := h.rooms[roomID]; ok {
		activeClients := 0
		uniqueUsers := make(map[string]bool)

		for client := range clients {
			if client.IsClientActive() {
				activeClients++
				uniqueUsers[client.UserID] = true
			}
		}

		stats["exists"] = true
		stats["total_connections"] = len(clients)
		stats["active_connections"] = activeClients
		stats["unique_users"] = len(uniqueUsers)
	}

	return stats
}

func (h *Hub) GetHubStats() HubStats {
	h.statsMu.RLock()
	stats := h.stats
	h.statsMu.RUnlock()

	h.mu.RLock()
	stats.TotalRooms = len(h.rooms)
	totalClients := 0
	for _, clients := range h.rooms {
		for client := range clients {
			if client.IsClientActive() {
				totalClients++
			}
		}
	}
	stats.TotalClients = totalClients
	h.mu.RUnlock()

	return stats
}

func (h *Hub) broadcastUserStatus(roomID, userID string, online bool) {
	status := "offline"
	if online {
		status = "online"
	}

	event := Event{
		Type:   EventUserStatus,
		RoomID: roomID,
		Data: map[string]any{
			"user_id": userID,
			"status":  status,
		},
		Timestamp: time.Now().Unix(),
	}

	h.publishExceptUser(roomID, event, userID)
}

func (h *Hub) publishExceptUser(roomID string, event Event, exceptUserID string) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	var targets []*Client
	if clients, ok := h.rooms[roomID]; ok {
		for client := range clients {
			if client.UserID != exceptUserID && client.IsClientActive() {
				targets = append(targets, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		select {
		case client.Send <- data:
		default:
		}
	}
}

func (h *Hub) updateStats(fn func(*HubStats)) {
	h.statsMu.Lock()
	fn(&h.stats)
	h.statsMu.Unlock()
}

func (h *Hub) cleanupRoutine() {
	defer h.cleanupTicker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.cleanupTicker.C:
			h.performCleanup()
		}
	}
}

func (h *Hub) performCleanup() {
	now := time.Now()
	inactiveThreshold := 2 * time.Minute

	var toRemove []*Client

	h.mu.RLock()
	for _, clients := range h.rooms {
		for client := range clients {
			if !client.IsClientActive() || now.Sub(client.GetLastSeen()) > inactiveThreshold {
				toRemove = append(toRemove, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range toRemove {
		log.Info().Str("clientID", client.ID).Msg("ws: cleaning up inactive client")
		client.Close()
	}

	if len(toRemove) > 0 {
		log.Debug().Int("cleaned", len(toRemove)).Msg("ws: cleanup routine completed")
	}
}

// Close gracefully shuts down the hub and all connections.
func (h *Hub) Close() {
	log.Info().Msg("ws: shutting down hub")

	h.cancel()

	h.mu.RLock()
	var allClients []*Client
	for client := range h.clientRooms {
		allClients = append(allClients, client)
	}
	h.mu.RUnlock()

	for _, client := range allClients {
		client.Close()
	}

	log.Info().Int("clients", len(allClients)).Msg("ws: hub shutdown completed")
}
