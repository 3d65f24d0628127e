package note_dto

import "time"

type CreateNoteRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	RoomID   string `json:"room_id"`
	FileURL  string `json:"file_url" validate:"required"`
	FileName string `json:"file_name" validate:"required"`
	FileSize int64  `json:"file_size" validate:"min=0"`
}

type ShareNoteRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,dive,required"`
}

type NoteResponse struct {
	NoteID    string    `json:"note_id"`
	Title     string    `json:"title"`
	RoomID    string    `json:"room_id,omitempty"`
	OwnerID   string    `json:"owner_id"`
	FileURL   string    `json:"file_url"`
	FileName  string    `json:"file_name"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
}
