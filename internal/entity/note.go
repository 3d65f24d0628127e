package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        uuid.UUID `gorm:"primaryKey"`
	Title     string    `gorm:"not null"`
	RoomID    string    `gorm:"index"`
	OwnerID   string    `gorm:"not null;index"`
	FileURL   string
	FileName  string
	FileSize  int64
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
