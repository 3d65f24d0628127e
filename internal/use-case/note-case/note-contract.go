package note_service

import (
	"context"

	"github.com/kshathishka/collabstudy/internal/dtos/note_dto"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
)

type NoteServiceContract interface {
	CreateNote(ctx context.Context, ownerID string, req note_dto.CreateNoteRequest) (*note_dto.NoteResponse, *app_error.AppError)
	GetNote(ctx context.Context, noteID, requesterID string) (*note_dto.NoteResponse, *app_error.AppError)
	ListMyNotes(ctx context.Context, ownerID string) ([]*note_dto.NoteResponse, *app_error.AppError)
	ShareNote(ctx context.Context, noteID, ownerID string, req note_dto.ShareNoteRequest) *app_error.AppError
	DeleteNote(ctx context.Context, noteID, ownerID string) *app_error.AppError
}
