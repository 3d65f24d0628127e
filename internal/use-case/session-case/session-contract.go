package session_service

import (
	"context"

	"github.com/kshathishka/collabstudy/internal/dtos/session_dto"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
)

type SessionServiceContract interface {
	CreateSession(ctx context.Context, hostID string, req session_dto.CreateSessionRequest) (*session_dto.SessionResponse, *app_error.AppError)
	GetSession(ctx context.Context, sessionID string) (*session_dto.SessionResponse, *app_error.AppError)
	ListRoomSessions(ctx context.Context, roomID, requesterID string) ([]*session_dto.SessionResponse, *app_error.AppError)
	StartSession(ctx context.Context, sessionID, actorID string) (*session_dto.SessionResponse, *app_error.AppError)
	EndSession(ctx context.Context, sessionID, actorID string) (*session_dto.SessionResponse, *app_error.AppError)
	CancelSession(ctx context.Context, sessionID, actorID string) (*session_dto.SessionResponse, *app_error.AppError)
}
