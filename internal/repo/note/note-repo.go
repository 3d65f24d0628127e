package note_repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/state"
)

type NoteRepoContract interface {
	CreateNote(ctx context.Context, note *entity.Note) *app_error.AppError
	FindNoteByID(ctx context.Context, noteID string) (*entity.Note, *app_error.AppError)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Note, *app_error.AppError)
	DeleteNote(ctx context.Context, noteID string) *app_error.AppError
}

type NoteRepo struct {
	AppState *state.AppState
}

func NewNoteRepo(appState *state.AppState) NoteRepoContract {
	return &NoteRepo{
		AppState: appState,
	}
}

func (r *NoteRepo) CreateNote(ctx context.Context, note *entity.Note) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Create(note).Error; err != nil {
		return app_error.NewTransientStoreError("failed to create note", "db-error")
	}
	return nil
}

func (r *NoteRepo) FindNoteByID(ctx context.Context, noteID string) (*entity.Note, *app_error.AppError) {
	var note entity.Note
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", noteID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewNotFoundError("note not found", "not-found")
		}
		return nil, app_error.NewTransientStoreError("failed to fetch note", "db-error")
	}
	return &note, nil
}

func (r *NoteRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Note, *app_error.AppError) {
	var notes []*entity.Note
	err := r.AppState.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, app_error.NewTransientStoreError("failed to fetch notes", "db-error")
	}
	return notes, nil
}

func (r *NoteRepo) DeleteNote(ctx context.Context, noteID string) *app_error.AppError {
	result := r.AppState.DB.WithContext(ctx).Where("id = ?", noteID).Delete(&entity.Note{})
	if result.Error != nil {
		return app_error.NewTransientStoreError("failed to delete note", "db-error")
	}
	if result.RowsAffected == 0 {
		return app_error.NewNotFoundError("note not found", "not-found")
	}
	return nil
}
