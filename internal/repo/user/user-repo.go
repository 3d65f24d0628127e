package user_repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/state"
)

type UserRepo struct {
	AppState *state.AppState
}

func NewUserRepo(appState *state.AppState) UserRepoContract {
	return &UserRepo{
		AppState: appState,
	}
}

func (r *UserRepo) SaveUser(ctx context.Context, model *entity.User) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Create(model).Error; err != nil {
		return app_error.NewTransientStoreError("unexpected error occur when trying to create user", "db-create")
	}
	return nil
}

func (r *UserRepo) FindUserByID(ctx context.Context, userID string) (*entity.User, *app_error.AppError) {
	var user entity.User
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewNotFoundError("cannot find user", "user-id")
		}
		return nil, app_error.NewTransientStoreError("unexpected error occur when fetch user", "db-error")
	}
	return &user, nil
}

func (r *UserRepo) FindUserByEmail(ctx context.Context, email string) (*entity.User, *app_error.AppError) {
	var user entity.User
	if err := r.AppState.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewNotFoundError("cannot find user", "user-credential")
		}
		return nil, app_error.NewTransientStoreError("unexpected error occur when fetch user", "db-error")
	}
	return &user, nil
}

func (r *UserRepo) CountByEmail(ctx context.Context, email string) (int64, *app_error.AppError) {
	var count int64
	err := r.AppState.DB.WithContext(ctx).
		Model(&entity.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return 0, app_error.NewTransientStoreError("unexpected server error", "db-count")
	}
	return count, nil
}
