package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	NotificationRoomInvitation  = "room_invitation"
	NotificationSessionReminder = "session_reminder"
	NotificationNewMessage      = "new_message"
	NotificationNoteShared      = "note_shared"
	NotificationSessionStarted  = "session_started"
	NotificationSessionEnded    = "session_ended"
)

type Notification struct {
	ID          bson.ObjectID    `bson:"_id,omitempty" json:"id"`
	RecipientID string           `bson:"recipient_id" json:"recipient_id"`
	SenderID    string           `bson:"sender_id,omitempty" json:"sender_id,omitempty"`
	Type        string           `bson:"type" json:"type"`
	Title       string           `bson:"title" json:"title"`
	Message     string           `bson:"message" json:"message"`
	Data        NotificationData `bson:"data" json:"data"`
	IsRead      bool             `bson:"is_read" json:"is_read"`
	ReadAt      *time.Time       `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt   time.Time        `bson:"created_at" json:"created_at"`
}

// NotificationData carries the single reference relevant to the notification
// type. Exactly zero or one field is set, matching Type.
type NotificationData struct {
	RoomID    *string `bson:"room_id,omitempty" json:"room_id,omitempty"`
	SessionID *string `bson:"session_id,omitempty" json:"session_id,omitempty"`
	NoteID    *string `bson:"note_id,omitempty" json:"note_id,omitempty"`
}

func ValidNotificationType(t string) bool {
	switch t {
	case NotificationRoomInvitation, NotificationSessionReminder,
		NotificationNewMessage, NotificationNoteShared,
		NotificationSessionStarted, NotificationSessionEnded:
		return true
	}
	return false
}

// Validate enforces the payload invariant: at most one reference, and the
// reference kind must match the notification type.
func (n *Notification) Validate() bool {
	if !ValidNotificationType(n.Type) {
		return false
	}

	set := 0
	if n.Data.RoomID != nil {
		set++
	}
	if n.Data.SessionID != nil {
		set++
	}
	if n.Data.NoteID != nil {
		set++
	}
	if set > 1 {
		return false
	}

	switch n.Type {
	case NotificationRoomInvitation, NotificationNewMessage:
		return n.Data.SessionID == nil && n.Data.NoteID == nil
	case NotificationSessionReminder, NotificationSessionStarted, NotificationSessionEnded:
		return n.Data.RoomID == nil && n.Data.NoteID == nil
	case NotificationNoteShared:
		return n.Data.RoomID == nil && n.Data.SessionID == nil
	}
	return false
}
