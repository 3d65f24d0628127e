package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	MessageTypeText   = "text"
	MessageTypeFile   = "file"
	MessageTypeImage  = "image"
	MessageTypeSystem = "system"
)

// DeletedMessageContent replaces the original content of a soft-deleted
// message. The record keeps its id and position so reply threading survives.
const DeletedMessageContent = "This message was deleted"

type Message struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomID    string        `bson:"room_id" json:"room_id"`
	SenderID  string        `bson:"sender_id" json:"sender_id"`
	Content   string        `bson:"content" json:"content"`
	Type      string        `bson:"type" json:"type"`
	FileMeta  *FileMeta     `bson:"file_meta,omitempty" json:"file_meta,omitempty"`
	ReplyTo   *string       `bson:"reply_to,omitempty" json:"reply_to,omitempty"`
	Reactions []Reaction    `bson:"reactions" json:"reactions"`
	// Seq is a per-room monotonic sequence allocated at append time. It is
	// the sort key and pagination cursor; wall-clock alone cannot give a
	// total order per room.
	Seq       int64      `bson:"seq" json:"seq"`
	IsEdited  bool       `bson:"is_edited" json:"is_edited"`
	EditedAt  *time.Time `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
	IsDeleted bool       `bson:"is_deleted" json:"is_deleted"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
}

// Reaction is a (user, emoji) pair, unique per message. A user may hold
// several distinct emojis on one message but at most one instance of each.
type Reaction struct {
	UserID string `bson:"user_id" json:"user_id"`
	Emoji  string `bson:"emoji" json:"emoji"`
}

// FileMeta describes an attachment already stored elsewhere. The chat core
// never performs the upload itself.
type FileMeta struct {
	URL  string `bson:"url" json:"url"`
	Name string `bson:"name" json:"name"`
	Size int64  `bson:"size" json:"size"`
}

func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeFile, MessageTypeImage, MessageTypeSystem:
		return true
	}
	return false
}

// HasReaction reports whether the (user, emoji) pair is present.
func (m *Message) HasReaction(userID, emoji string) bool {
	for _, r := range m.Reactions {
		if r.UserID == userID && r.Emoji == emoji {
			return true
		}
	}
	return false
}
