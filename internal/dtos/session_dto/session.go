package session_dto

import "time"

type CreateSessionRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=200"`
	Description string    `json:"description"`
	RoomID      string    `json:"room_id" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	MeetingLink string    `json:"meeting_link"`
}

type SessionResponse struct {
	SessionID   string    `json:"session_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	RoomID      string    `json:"room_id"`
	HostID      string    `json:"host_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	MeetingLink string    `json:"meeting_link,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
