package room_dto

import "time"

type CreateRoomRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Description string   `json:"description"`
	Subject     string   `json:"subject"`
	Capacity    int      `json:"capacity" validate:"omitempty,min=1,max=100"`
	IsPrivate   bool     `json:"is_private"`
	Tags        []string `json:"tags"`
}

type UpdateRoomRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
	Subject     *string `json:"subject,omitempty"`
	Capacity    *int    `json:"capacity,omitempty" validate:"omitempty,min=1,max=100"`
}

type InviteUserRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type RoomResponse struct {
	RoomID      string    `json:"room_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Subject     string    `json:"subject"`
	Capacity    int       `json:"capacity"`
	IsPrivate   bool      `json:"is_private"`
	CreatedBy   string    `json:"created_by"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type RoomMemberResponse struct {
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}
