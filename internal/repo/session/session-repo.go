package session_repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/state"
)

type SessionRepoContract interface {
	CreateSession(ctx context.Context, session *entity.Session) *app_error.AppError
	FindSessionByID(ctx context.Context, sessionID string) (*entity.Session, *app_error.AppError)
	ListByRoom(ctx context.Context, roomID string) ([]*entity.Session, *app_error.AppError)
	UpdateStatus(ctx context.Context, sessionID, status string) *app_error.AppError
}

type SessionRepo struct {
	AppState *state.AppState
}

func NewSessionRepo(appState *state.AppState) SessionRepoContract {
	return &SessionRepo{
		AppState: appState,
	}
}

func (r *SessionRepo) CreateSession(ctx context.Context, session *entity.Session) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Create(session).Error; err != nil {
		return app_error.NewTransientStoreError("failed to create session", "db-error")
	}
	return nil
}

func (r *SessionRepo) FindSessionByID(ctx context.Context, sessionID string) (*entity.Session, *app_error.AppError) {
	var session entity.Session
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewNotFoundError("session not found", "not-found")
		}
		return nil, app_error.NewTransientStoreError("failed to fetch session", "db-error")
	}
	return &session, nil
}

func (r *SessionRepo) ListByRoom(ctx context.Context, roomID string) ([]*entity.Session, *app_error.AppError) {
	var sessions []*entity.Session
	err := r.AppState.DB.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, app_error.NewTransientStoreError("failed to fetch sessions", "db-error")
	}
	return sessions, nil
}

func (r *SessionRepo) UpdateStatus(ctx context.Context, sessionID, status string) *app_error.AppError {
	result := r.AppState.DB.WithContext(ctx).
		Model(&entity.Session{}).
		Where("id = ?", sessionID).
		Update("status", status)
	if result.Error != nil {
		return app_error.NewTransientStoreError("failed to update session status", "db-error")
	}
	if result.RowsAffected == 0 {
		return app_error.NewNotFoundError("session not found", "not-found")
	}
	return nil
}
