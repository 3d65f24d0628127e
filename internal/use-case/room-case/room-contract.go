package room_service

import (
	"context"

	"github.com/kshathishka/collabstudy/internal/dtos/room_dto"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
)

type RoomServiceContract interface {
	CreateRoom(ctx context.Context, creatorID string, req room_dto.CreateRoomRequest) (*room_dto.RoomResponse, *app_error.AppError)
	GetRoom(ctx context.Context, roomID, requesterID string) (*room_dto.RoomResponse, *app_error.AppError)
	ListRooms(ctx context.Context, limit, offset int) ([]*room_dto.RoomResponse, *app_error.AppError)
	UpdateRoom(ctx context.Context, roomID, actorID string, req room_dto.UpdateRoomRequest) (*room_dto.RoomResponse, *app_error.AppError)
	InviteUser(ctx context.Context, roomID, inviterID string, req room_dto.InviteUserRequest) *app_error.AppError
	LeaveRoom(ctx context.Context, roomID, userID string) *app_error.AppError
	ListMembers(ctx context.Context, roomID, requesterID string) ([]*room_dto.RoomMemberResponse, *app_error.AppError)
}
