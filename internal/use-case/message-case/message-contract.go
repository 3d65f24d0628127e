package message_service

import (
	"context"

	"github.com/kshathishka/collabstudy/internal/dtos/message_dto"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
)

type MessageServiceContract interface {
	SendMessage(ctx context.Context, roomID, senderID string, req message_dto.SendMessageRequest) (*message_dto.MessageResponse, *app_error.AppError)
	GetMessage(ctx context.Context, roomID, messageID string) (*message_dto.MessageResponse, *app_error.AppError)
	ListRoomMessages(ctx context.Context, roomID, requesterID string, req message_dto.ListMessagesRequest) (*message_dto.ListMessagesResponse, *app_error.AppError)
	EditMessage(ctx context.Context, roomID, messageID, actorID string, req message_dto.EditMessageRequest) (*message_dto.MessageResponse, *app_error.AppError)
	DeleteMessage(ctx context.Context, roomID, messageID, actorID string) (*message_dto.MessageResponse, *app_error.AppError)
	ToggleReaction(ctx context.Context, roomID, messageID, userID string, req message_dto.ToggleReactionRequest) (*message_dto.ReactionsResponse, *app_error.AppError)
}
