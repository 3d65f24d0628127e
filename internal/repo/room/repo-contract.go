package room_repo

import (
	"context"

	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
)

type RoomRepoContract interface {
	CreateRoom(ctx context.Context, room *entity.Room, creatorID string) *app_error.AppError
	FindRoomByID(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError)
	ListRooms(ctx context.Context, limit, offset int) ([]*entity.Room, *app_error.AppError)
	UpdateRoom(ctx context.Context, room *entity.Room) *app_error.AppError

	AddMember(ctx context.Context, roomID, userID, role string) *app_error.AppError
	RemoveMember(ctx context.Context, roomID, userID string) *app_error.AppError
	IsMember(ctx context.Context, roomID, userID string) (bool, *app_error.AppError)
	MembersOf(ctx context.Context, roomID string) ([]string, *app_error.AppError)
	FindMembers(ctx context.Context, roomID string) ([]*entity.RoomMember, *app_error.AppError)
}
