package message_dto

import (
	"time"

	"github.com/kshathishka/collabstudy/internal/entity"
)

type MessageResponse struct {
	MessageID string           `json:"message_id"`
	RoomID    string           `json:"room_id"`
	Sender    entity.UserRef   `json:"sender"`
	Content   string           `json:"content"`
	Type      string           `json:"type"`
	FileMeta  *entity.FileMeta `json:"file_meta,omitempty"`
	ReplyTo   *ReplyPreview    `json:"reply_to,omitempty"`
	Reactions []entity.Reaction `json:"reactions"`
	Seq       int64            `json:"seq"`
	IsEdited  bool             `json:"is_edited"`
	EditedAt  *time.Time       `json:"edited_at,omitempty"`
	IsDeleted bool             `json:"is_deleted"`
	CreatedAt time.Time        `json:"created_at"`
}

// ReplyPreview is the lazily resolved reply target. Available=false means the
// original message is missing, deleted, or lives in another room; the client
// renders "original message unavailable" instead of failing.
type ReplyPreview struct {
	MessageID string `json:"message_id"`
	Available bool   `json:"available"`
	Content   string `json:"content,omitempty"`
	SenderID  string `json:"sender_id,omitempty"`
}

type ListMessagesResponse struct {
	Messages   []MessageResponse `json:"messages"`
	NextCursor *int64            `json:"next_cursor,omitempty"`
	HasMore    bool              `json:"has_more"`
}

type ReactionsResponse struct {
	MessageID string            `json:"message_id"`
	Reactions []entity.Reaction `json:"reactions"`
}
