package session_service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kshathishka/collabstudy/internal/dtos/session_dto"
	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/internal/queue"
	room_repo "github.com/kshathishka/collabstudy/internal/repo/room"
	session_repo "github.com/kshathishka/collabstudy/internal/repo/session"
	"github.com/kshathishka/collabstudy/internal/utils/types"
	"github.com/kshathishka/collabstudy/state"
)

type SessionService struct {
	AppState    *state.AppState
	SessionRepo session_repo.SessionRepoContract
	RoomRepo    room_repo.RoomRepoContract
	Producer    queue.Producer
}

func NewSessionService(appState *state.AppState, producer queue.Producer) SessionServiceContract {
	return &SessionService{
		AppState:    appState,
		SessionRepo: session_repo.NewSessionRepo(appState),
		RoomRepo:    room_repo.NewRoomRepo(appState),
		Producer:    producer,
	}
}

func (s *SessionService) CreateSession(ctx context.Context, hostID string, req session_dto.CreateSessionRequest) (*session_dto.SessionResponse, *app_error.AppError) {
	if !req.EndTime.After(req.StartTime) {
		return nil, app_error.NewValidationError("end time must be after start time", "end_time")
	}

	member, err := s.RoomRepo.IsMember(ctx, req.RoomID, hostID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, app_error.NewForbiddenError("only room members can schedule sessions", "room")
	}

	session := &entity.Session{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		RoomID:      req.RoomID,
		HostID:      hostID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      entity.SessionScheduled,
		MeetingLink: req.MeetingLink,
	}

	if err := s.SessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return buildSessionResponse(session), nil
}

func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*session_dto.SessionResponse, *app_error.AppError) {
	session, err := s.SessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return buildSessionResponse(session), nil
}

func (s *SessionService) ListRoomSessions(ctx context.Context, roomID, requesterID string) ([]*session_dto.SessionResponse, *app_error.AppError) {
	member, err := s.RoomRepo.IsMember(ctx, roomID, requesterID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, app_error.NewForbiddenError("user is not a member of this room", "room")
	}

	sessions, err := s.SessionRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	responses := make([]*session_dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, buildSessionResponse(session))
	}
	return responses, nil
}

func (s *SessionService) StartSession(ctx context.Context, sessionID, actorID string) (*session_dto.SessionResponse, *app_error.AppError) {
	return s.transition(ctx, sessionID, actorID, entity.SessionScheduled, entity.SessionOngoing, types.SessionKindStarted)
}

func (s *SessionService) EndSession(ctx context.Context, sessionID, actorID string) (*session_dto.SessionResponse, *app_error.AppError) {
	return s.transition(ctx, sessionID, actorID, entity.SessionOngoing, entity.SessionCompleted, types.SessionKindEnded)
}

func (s *SessionService) CancelSession(ctx context.Context, sessionID, actorID string) (*session_dto.SessionResponse, *app_error.AppError) {
	return s.transition(ctx, sessionID, actorID, entity.SessionScheduled, entity.SessionCancelled, "")
}

// transition enforces the session state machine: scheduled -> ongoing ->
// completed, with scheduled -> cancelled as the only other edge. Host-only.
func (s *SessionService) transition(ctx context.Context, sessionID, actorID, from, to, notifyKind string) (*session_dto.SessionResponse, *app_error.AppError) {
	session, err := s.SessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.HostID != actorID {
		return nil, app_error.NewForbiddenError("only the host can manage the session", "host")
	}
	if session.Status != from {
		return nil, app_error.NewInvalidStateError("session is not in a state that allows this transition", "status")
	}

	if err := s.SessionRepo.UpdateStatus(ctx, sessionID, to); err != nil {
		return nil, err
	}
	session.Status = to

	if notifyKind != "" {
		job := queue.NewJob(queue.JobNotifySessionLifecycle, types.SessionLifecyclePayload{
			SessionID:    sessionID,
			SessionTitle: session.Title,
			RoomID:       session.RoomID,
			HostID:       session.HostID,
			Kind:         notifyKind,
		}, 1)
		if err := s.Producer.Enqueue(ctx, job); err != nil {
			log.Warn().Err(err).Str("sessionID", sessionID).Msg("failed to enqueue session notification")
		}
	}

	return buildSessionResponse(session), nil
}

func buildSessionResponse(session *entity.Session) *session_dto.SessionResponse {
	return &session_dto.SessionResponse{
		SessionID:   session.ID.String(),
		Title:       session.Title,
		Description: session.Description,
		RoomID:      session.RoomID,
		HostID:      session.HostID,
		StartTime:   session.StartTime,
		EndTime:     session.EndTime,
		Status:      session.Status,
		MeetingLink: session.MeetingLink,
		CreatedAt:   session.CreatedAt,
	}
}
