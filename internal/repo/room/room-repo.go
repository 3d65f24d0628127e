package room_repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/state"
)

type RoomRepo struct {
	AppState *state.AppState
}

func NewRoomRepo(appState *state.AppState) RoomRepoContract {
	return &RoomRepo{
		AppState: appState,
	}
}

// CreateRoom inserts the room and its creator as admin in one transaction.
func (r *RoomRepo) CreateRoom(ctx context.Context, room *entity.Room, creatorID string) *app_error.AppError {
	tx := r.AppState.DB.WithContext(ctx).Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(room).Error; err != nil {
		tx.Rollback()
		return app_error.NewTransientStoreError("failed to create room", "db-error")
	}

	member := &entity.RoomMember{
		RoomID: room.ID.String(),
		UserID: creatorID,
		Role:   entity.RoomRoleAdmin,
	}
	if err := tx.Create(member).Error; err != nil {
		tx.Rollback()
		return app_error.NewTransientStoreError("failed to add creator to room", "db-error")
	}

	if err := tx.Commit().Error; err != nil {
		return app_error.NewTransientStoreError("failed to commit room creation", "db-error")
	}
	return nil
}

func (r *RoomRepo) FindRoomByID(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError) {
	var room entity.Room
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", roomID).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewNotFoundError("room not found", "not-found")
		}
		return nil, app_error.NewTransientStoreError("failed to fetch room", "db-error")
	}
	return &room, nil
}

func (r *RoomRepo) ListRooms(ctx context.Context, limit, offset int) ([]*entity.Room, *app_error.AppError) {
	var rooms []*entity.Room
	err := r.AppState.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rooms).Error
	if err != nil {
		return nil, app_error.NewTransientStoreError("failed to fetch rooms", "db-error")
	}
	return rooms, nil
}

func (r *RoomRepo) UpdateRoom(ctx context.Context, room *entity.Room) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Save(room).Error; err != nil {
		return app_error.NewTransientStoreError("failed to update room", "db-error")
	}
	return nil
}

func (r *RoomRepo) AddMember(ctx context.Context, roomID, userID, role string) *app_error.AppError {
	member := &entity.RoomMember{
		RoomID: roomID,
		UserID: userID,
		Role:   role,
	}
	if err := r.AppState.DB.WithContext(ctx).Create(member).Error; err != nil {
		// joining twice is not an error
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil
		}
		return app_error.NewTransientStoreError("failed to add member to room", "db-error")
	}
	return nil
}

func (r *RoomRepo) RemoveMember(ctx context.Context, roomID, userID string) *app_error.AppError {
	err := r.AppState.DB.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&entity.RoomMember{}).Error
	if err != nil {
		return app_error.NewTransientStoreError("failed to remove member from room", "db-error")
	}
	return nil
}

func (r *RoomRepo) IsMember(ctx context.Context, roomID, userID string) (bool, *app_error.AppError) {
	var count int64
	err := r.AppState.DB.WithContext(ctx).
		Model(&entity.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	if err != nil {
		return false, app_error.NewTransientStoreError("failed to check room membership", "db-error")
	}
	return count > 0, nil
}

func (r *RoomRepo) MembersOf(ctx context.Context, roomID string) ([]string, *app_error.AppError) {
	var userIDs []string
	err := r.AppState.DB.WithContext(ctx).
		Model(&entity.RoomMember{}).
		Where("room_id = ?", roomID).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, app_error.NewTransientStoreError("failed to fetch room members", "db-error")
	}
	return userIDs, nil
}

func (r *RoomRepo) FindMembers(ctx context.Context, roomID string) ([]*entity.RoomMember, *app_error.AppError) {
	var members []*entity.RoomMember
	err := r.AppState.DB.WithContext(ctx).
		Where("room_id = ?", roomID).
		Find(&members).Error
	if err != nil {
		return nil, app_error.NewTransientStoreError("failed to fetch room members", "db-error")
	}
	return members, nil
}
