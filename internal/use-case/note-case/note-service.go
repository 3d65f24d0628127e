package note_service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kshathishka/collabstudy/internal/dtos/note_dto"
	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/internal/queue"
	note_repo "github.com/kshathishka/collabstudy/internal/repo/note"
	room_repo "github.com/kshathishka/collabstudy/internal/repo/room"
	user_repo "github.com/kshathishka/collabstudy/internal/repo/user"
	"github.com/kshathishka/collabstudy/internal/utils/types"
	"github.com/kshathishka/collabstudy/state"
)

type NoteService struct {
	AppState *state.AppState
	NoteRepo note_repo.NoteRepoContract
	RoomRepo room_repo.RoomRepoContract
	UserRepo user_repo.UserRepoContract
	Producer queue.Producer
}

func NewNoteService(appState *state.AppState, producer queue.Producer) NoteServiceContract {
	return &NoteService{
		AppState: appState,
		NoteRepo: note_repo.NewNoteRepo(appState),
		RoomRepo: room_repo.NewRoomRepo(appState),
		UserRepo: user_repo.NewUserRepo(appState),
		Producer: producer,
	}
}

func (s *NoteService) CreateNote(ctx context.Context, ownerID string, req note_dto.CreateNoteRequest) (*note_dto.NoteResponse, *app_error.AppError) {
	if req.RoomID != "" {
		member, err := s.RoomRepo.IsMember(ctx, req.RoomID, ownerID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, app_error.NewForbiddenError("user is not a member of this room", "room")
		}
	}

	note := &entity.Note{
		ID:       uuid.New(),
		Title:    req.Title,
		RoomID:   req.RoomID,
		OwnerID:  ownerID,
		FileURL:  req.FileURL,
		FileName: req.FileName,
		FileSize: req.FileSize,
	}

	if err := s.NoteRepo.CreateNote(ctx, note); err != nil {
		return nil, err
	}

	return buildNoteResponse(note), nil
}

func (s *NoteService) GetNote(ctx context.Context, noteID, requesterID string) (*note_dto.NoteResponse, *app_error.AppError) {
	note, err := s.NoteRepo.FindNoteByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	// readable by the owner, or by room members when attached to a room
	if note.OwnerID != requesterID {
		if note.RoomID == "" {
			return nil, app_error.NewNotFoundError("note not found", "not-found")
		}
		member, err := s.RoomRepo.IsMember(ctx, note.RoomID, requesterID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, app_error.NewNotFoundError("note not found", "not-found")
		}
	}

	return buildNoteResponse(note), nil
}

func (s *NoteService) ListMyNotes(ctx context.Context, ownerID string) ([]*note_dto.NoteResponse, *app_error.AppError) {
	notes, err := s.NoteRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	responses := make([]*note_dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, buildNoteResponse(note))
	}
	return responses, nil
}

func (s *NoteService) ShareNote(ctx context.Context, noteID, ownerID string, req note_dto.ShareNoteRequest) *app_error.AppError {
	note, err := s.NoteRepo.FindNoteByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.OwnerID != ownerID {
		return app_error.NewForbiddenError("only the owner can share a note", "owner")
	}

	recipients := make([]string, 0, len(req.UserIDs))
	for _, userID := range req.UserIDs {
		if userID == ownerID {
			continue
		}
		if _, err := s.UserRepo.FindUserByID(ctx, userID); err != nil {
			return err
		}
		recipients = append(recipients, userID)
	}
	if len(recipients) == 0 {
		return app_error.NewValidationError("no recipients to share with", "user_ids")
	}

	job := queue.NewJob(queue.JobNotifyNoteShared, types.NoteSharedPayload{
		NoteID:     noteID,
		NoteTitle:  note.Title,
		SharerID:   ownerID,
		Recipients: recipients,
	}, 1)
	if err := s.Producer.Enqueue(ctx, job); err != nil {
		log.Warn().Err(err).Str("noteID", noteID).Msg("failed to enqueue note-shared notification")
		return app_error.NewTransientStoreError("failed to share note", "queue")
	}

	return nil
}

func (s *NoteService) DeleteNote(ctx context.Context, noteID, ownerID string) *app_error.AppError {
	note, err := s.NoteRepo.FindNoteByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.OwnerID != ownerID {
		return app_error.NewForbiddenError("only the owner can delete a note", "owner")
	}
	return s.NoteRepo.DeleteNote(ctx, noteID)
}

func buildNoteResponse(note *entity.Note) *note_dto.NoteResponse {
	return &note_dto.NoteResponse{
		NoteID:    note.ID.String(),
		Title:     note.Title,
		RoomID:    note.RoomID,
		OwnerID:   note.OwnerID,
		FileURL:   note.FileURL,
		FileName:  note.FileName,
		FileSize:  note.FileSize,
		CreatedAt: note.CreatedAt,
	}
}
