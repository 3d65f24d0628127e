package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoomRoleAdmin     = "admin"
	RoomRoleModerator = "moderator"
	RoomRoleMember    = "member"
)

type Room struct {
	ID          uuid.UUID `gorm:"primaryKey"`
	Name        string    `gorm:"not null"`
	Description string
	Subject     string
	Capacity    int    `gorm:"not null;default:10"`
	IsPrivate   bool   `gorm:"not null;default:false"`
	CreatedBy   string `gorm:"not null"`
	IsActive    bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

type RoomMember struct {
	ID       int64     `gorm:"primaryKey"`
	RoomID   string    `gorm:"not null;uniqueIndex:idx_room_user"`
	UserID   string    `gorm:"not null;uniqueIndex:idx_room_user"`
	Role     string    `gorm:"not null;default:member"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}
