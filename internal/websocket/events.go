package websocket

import "time"

// Live event types emitted on the per-connection stream.
const (
	EventMessageReceived = "message-received"
	EventMessageEdited   = "message-edited"
	EventMessageDeleted  = "message-deleted"
	EventReactionChanged = "reaction-changed"
	EventUserTyping      = "user-typing"
	EventUserStopTyping  = "user-stop-typing"
	EventUserStatus      = "user-status"
	EventNotification    = "notification"
	EventSystem          = "system"
	EventError           = "error"
)

type Event struct {
	Type      string `json:"type"`
	RoomID    string `json:"roomId,omitempty"`
	SenderID  string `json:"senderId,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func NewSystemEvent(roomID, content string, data map[string]any) Event {
	if data == nil {
		data = map[string]any{}
	}
	data["content"] = content
	return Event{
		Type:      EventSystem,
		RoomID:    roomID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
}

// Frames read from the client side of the socket. Everything durable goes
// through the HTTP API; the socket only carries subscriptions and typing
// signals upstream.
type IncomingFrame struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

const (
	FrameJoin       = "join"
	FrameLeave      = "leave"
	FrameTyping     = "typing"
	FrameStopTyping = "stop-typing"
)
