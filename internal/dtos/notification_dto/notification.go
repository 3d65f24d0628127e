package notification_dto

import (
	"time"

	"github.com/kshathishka/collabstudy/internal/entity"
)

type ListNotificationsRequest struct {
	Limit    int     `json:"limit" validate:"omitempty,min=1,max=100"`
	BeforeID *string `json:"before_id,omitempty"` // cursor: notification id
}

type NotificationResponse struct {
	ID        string                  `json:"id"`
	SenderID  string                  `json:"sender_id,omitempty"`
	Type      string                  `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Data      entity.NotificationData `json:"data"`
	IsRead    bool                    `json:"is_read"`
	ReadAt    *time.Time              `json:"read_at,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	NextCursor    *string                `json:"next_cursor,omitempty"`
	HasMore       bool                   `json:"has_more"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
