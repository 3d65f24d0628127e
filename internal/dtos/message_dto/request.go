package message_dto

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type SendMessageRequest struct {
	Content  string           `json:"content"`
	Type     string           `json:"type" validate:"omitempty,oneof=text file image system"`
	FileMeta *FileMetaRequest `json:"file_meta,omitempty"`
	ReplyTo  *string          `json:"reply_to,omitempty" validate:"omitempty,objectID"`
}

type FileMetaRequest struct {
	URL  string `json:"url" validate:"required"`
	Name string `json:"name" validate:"required"`
	Size int64  `json:"size" validate:"min=0"`
	Mime string `json:"mime,omitempty"`
}

type ListMessagesRequest struct {
	Limit     int    `json:"limit" validate:"omitempty,min=1,max=100"`
	BeforeSeq *int64 `json:"before_seq,omitempty"` // cursor: per-room sequence
}

type EditMessageRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

type ToggleReactionRequest struct {
	Emoji string `json:"emoji" validate:"required,min=1,max=16"`
}

func ObjectIDValidator(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}
