package entity

import (
	"time"
)

type User struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex"`
	Avatar       string
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// UserRef is the directory view of a user handed to collaborators: enough to
// render a sender, nothing more.
type UserRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}
