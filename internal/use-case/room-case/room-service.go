package room_service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kshathishka/collabstudy/internal/dtos/room_dto"
	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/internal/queue"
	room_repo "github.com/kshathishka/collabstudy/internal/repo/room"
	user_repo "github.com/kshathishka/collabstudy/internal/repo/user"
	"github.com/kshathishka/collabstudy/internal/utils/types"
	"github.com/kshathishka/collabstudy/state"
)

const defaultCapacity = 10

type RoomService struct {
	AppState *state.AppState
	RoomRepo room_repo.RoomRepoContract
	UserRepo user_repo.UserRepoContract
	Producer queue.Producer
}

func NewRoomService(appState *state.AppState, producer queue.Producer) RoomServiceContract {
	return &RoomService{
		AppState: appState,
		RoomRepo: room_repo.NewRoomRepo(appState),
		UserRepo: user_repo.NewUserRepo(appState),
		Producer: producer,
	}
}

func (s *RoomService) CreateRoom(ctx context.Context, creatorID string, req room_dto.CreateRoomRequest) (*room_dto.RoomResponse, *app_error.AppError) {
	capacity := req.Capacity
	if capacity <= 0 {
		capacity = defaultCapacity
	}

	room := &entity.Room{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Subject:     req.Subject,
		Capacity:    capacity,
		IsPrivate:   req.IsPrivate,
		CreatedBy:   creatorID,
		IsActive:    true,
	}

	if err := s.RoomRepo.CreateRoom(ctx, room, creatorID); err != nil {
		return nil, err
	}

	return buildRoomResponse(room, 1), nil
}

func (s *RoomService) GetRoom(ctx context.Context, roomID, requesterID string) (*room_dto.RoomResponse, *app_error.AppError) {
	room, err := s.RoomRepo.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	// private rooms stay invisible to non-members
	if room.IsPrivate {
		member, err := s.RoomRepo.IsMember(ctx, roomID, requesterID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, app_error.NewNotFoundError("room not found", "not-found")
		}
	}

	members, err := s.RoomRepo.MembersOf(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return buildRoomResponse(room, len(members)), nil
}

func (s *RoomService) ListRooms(ctx context.Context, limit, offset int) ([]*room_dto.RoomResponse, *app_error.AppError) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rooms, err := s.RoomRepo.ListRooms(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]*room_dto.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		members, err := s.RoomRepo.MembersOf(ctx, room.ID.String())
		if err != nil {
			return nil, err
		}
		responses = append(responses, buildRoomResponse(room, len(members)))
	}
	return responses, nil
}

func (s *RoomService) UpdateRoom(ctx context.Context, roomID, actorID string, req room_dto.UpdateRoomRequest) (*room_dto.RoomResponse, *app_error.AppError) {
	room, err := s.RoomRepo.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := s.requireRole(ctx, roomID, actorID, entity.RoomRoleAdmin, entity.RoomRoleModerator); err != nil {
		return nil, err
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Description != nil {
		room.Description = *req.Description
	}
	if req.Subject != nil {
		room.Subject = *req.Subject
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}

	if err := s.RoomRepo.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}

	members, err := s.RoomRepo.MembersOf(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return buildRoomResponse(room, len(members)), nil
}

func (s *RoomService) InviteUser(ctx context.Context, roomID, inviterID string, req room_dto.InviteUserRequest) *app_error.AppError {
	room, err := s.RoomRepo.FindRoomByID(ctx, roomID)
	if err != nil {
		return err
	}

	member, err := s.RoomRepo.IsMember(ctx, roomID, inviterID)
	if err != nil {
		return err
	}
	if !member {
		return app_error.NewForbiddenError("only members can invite", "room")
	}

	if _, err := s.UserRepo.FindUserByID(ctx, req.UserID); err != nil {
		return err
	}

	members, err := s.RoomRepo.MembersOf(ctx, roomID)
	if err != nil {
		return err
	}
	if len(members) >= room.Capacity {
		return app_error.NewInvalidStateError("room is at capacity", "capacity")
	}

	if err := s.RoomRepo.AddMember(ctx, roomID, req.UserID, entity.RoomRoleMember); err != nil {
		return err
	}

	job := queue.NewJob(queue.JobNotifyRoomInvitation, types.RoomInvitationPayload{
		RoomID:    roomID,
		RoomName:  room.Name,
		InviterID: inviterID,
		InviteeID: req.UserID,
	}, 1)
	if err := s.Producer.Enqueue(ctx, job); err != nil {
		// notification delivery never blocks the invite itself
		log.Warn().Err(err).Str("roomID", roomID).Msg("failed to enqueue invitation notification")
	}

	return nil
}

func (s *RoomService) LeaveRoom(ctx context.Context, roomID, userID string) *app_error.AppError {
	member, err := s.RoomRepo.IsMember(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if !member {
		return app_error.NewNotFoundError("user is not a member of this room", "not-found")
	}
	return s.RoomRepo.RemoveMember(ctx, roomID, userID)
}

func (s *RoomService) ListMembers(ctx context.Context, roomID, requesterID string) ([]*room_dto.RoomMemberResponse, *app_error.AppError) {
	member, err := s.RoomRepo.IsMember(ctx, roomID, requesterID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, app_error.NewForbiddenError("user is not a member of this room", "room")
	}

	members, err := s.RoomRepo.FindMembers(ctx, roomID)
	if err != nil {
		return nil, err
	}

	responses := make([]*room_dto.RoomMemberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, &room_dto.RoomMemberResponse{
			UserID:   m.UserID,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		})
	}
	return responses, nil
}

func (s *RoomService) requireRole(ctx context.Context, roomID, userID string, roles ...string) *app_error.AppError {
	members, err := s.RoomRepo.FindMembers(ctx, roomID)
	if err != nil {
		return err
	}

	for _, m := range members {
		if m.UserID != userID {
			continue
		}
		for _, role := range roles {
			if m.Role == role {
				return nil
			}
		}
		return app_error.NewForbiddenError("insufficient room role", "role")
	}
	return app_error.NewForbiddenError("user is not a member of this room", "room")
}

func buildRoomResponse(room *entity.Room, memberCount int) *room_dto.RoomResponse {
	return &room_dto.RoomResponse{
		RoomID:      room.ID.String(),
		Name:        room.Name,
		Description: room.Description,
		Subject:     room.Subject,
		Capacity:    room.Capacity,
		IsPrivate:   room.IsPrivate,
		CreatedBy:   room.CreatedBy,
		MemberCount: memberCount,
		CreatedAt:   room.CreatedAt,
	}
}
