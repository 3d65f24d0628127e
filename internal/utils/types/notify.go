package types

import "time"

// Job payloads for the notification fan-out worker. One payload per domain
// event; recipients are computed by the worker from room membership unless
// the event names them explicitly.

type MessageSentPayload struct {
	MessageID string    `json:"message_id"`
	RoomID    string    `json:"room_id"`
	SenderID  string    `json:"sender_id"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}

type NoteSharedPayload struct {
	NoteID     string   `json:"note_id"`
	NoteTitle  string   `json:"note_title"`
	SharerID   string   `json:"sharer_id"`
	Recipients []string `json:"recipients"`
}

type RoomInvitationPayload struct {
	RoomID    string `json:"room_id"`
	RoomName  string `json:"room_name"`
	InviterID string `json:"inviter_id"`
	InviteeID string `json:"invitee_id"`
}

const (
	SessionKindStarted = "started"
	SessionKindEnded   = "ended"
)

type SessionLifecyclePayload struct {
	SessionID    string `json:"session_id"`
	SessionTitle string `json:"session_title"`
	RoomID       string `json:"room_id"`
	HostID       string `json:"host_id"`
	Kind         string `json:"kind"`
}
