package user_service

import (
	"context"

	"github.com/kshathishka/collabstudy/internal/dtos/user_dto"
	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
)

type UserServiceContract interface {
	Register(ctx context.Context, req user_dto.RegisterRequest) (*user_dto.LoginResponse, *app_error.AppError)
	Login(ctx context.Context, req user_dto.LoginRequest) (*user_dto.LoginResponse, *app_error.AppError)
	ResolveUser(ctx context.Context, userID string) (*entity.UserRef, *app_error.AppError)
}
