package user_repo

import (
	"context"

	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
)

type UserRepoContract interface {
	SaveUser(ctx context.Context, model *entity.User) *app_error.AppError
	FindUserByID(ctx context.Context, userID string) (*entity.User, *app_error.AppError)
	FindUserByEmail(ctx context.Context, email string) (*entity.User, *app_error.AppError)
	CountByEmail(ctx context.Context, email string) (int64, *app_error.AppError)
}
