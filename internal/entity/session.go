package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionScheduled = "scheduled"
	SessionOngoing   = "ongoing"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

type Session struct {
	ID          uuid.UUID `gorm:"primaryKey"`
	Title       string    `gorm:"not null"`
	Description string
	RoomID      string `gorm:"not null;index"`
	HostID      string `gorm:"not null"`
	StartTime   time.Time
	EndTime     time.Time
	Status      string `gorm:"not null;default:scheduled"`
	MeetingLink string
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
