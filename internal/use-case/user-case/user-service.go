package user_service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kshathishka/collabstudy/internal/dtos/user_dto"
	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	user_repo "github.com/kshathishka/collabstudy/internal/repo/user"
	"github.com/kshathishka/collabstudy/internal/utils"
	"github.com/kshathishka/collabstudy/state"
)

const userRefCacheTTL = 10 * time.Minute

type UserService struct {
	AppState *state.AppState
	UserRepo user_repo.UserRepoContract
}

func NewUserService(appState *state.AppState) UserServiceContract {
	return &UserService{
		AppState: appState,
		UserRepo: user_repo.NewUserRepo(appState),
	}
}

func (s *UserService) Register(ctx context.Context, req user_dto.RegisterRequest) (*user_dto.LoginResponse, *app_error.AppError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	count, err := s.UserRepo.CountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, app_error.NewValidationError("email already registered", "email")
	}

	hash, hashErr := utils.GenerateHash(req.Password)
	if hashErr != nil {
		return nil, app_error.NewTransientStoreError("failed to hash password", "argon2")
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        email,
		Avatar:       req.Avatar,
		PasswordHash: hash,
	}

	if err := s.UserRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	return s.issueLogin(user)
}

func (s *UserService) Login(ctx context.Context, req user_dto.LoginRequest) (*user_dto.LoginResponse, *app_error.AppError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.UserRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if err.Code == http.StatusNotFound {
			return nil, app_error.NewForbiddenError("invalid credentials", "credentials")
		}
		return nil, err
	}

	ok, verifyErr := utils.VerifyHash(user.PasswordHash, req.Password)
	if verifyErr != nil || !ok {
		return nil, app_error.NewForbiddenError("invalid credentials", "credentials")
	}

	return s.issueLogin(user)
}

// ResolveUser returns the directory view of a user, cached in Redis so hot
// senders do not hammer Postgres on every message render.
func (s *UserService) ResolveUser(ctx context.Context, userID string) (*entity.UserRef, *app_error.AppError) {
	cacheKey := fmt.Sprintf("user:ref:%s", userID)

	cached, err := utils.GetCacheData[entity.UserRef](ctx, s.AppState.Redis, cacheKey)
	if err == nil && cached != nil {
		return cached, nil
	}

	user, err := s.UserRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ref := user.Ref()
	if cacheErr := utils.SetCacheData(ctx, s.AppState.Redis, cacheKey, &ref, userRefCacheTTL); cacheErr != nil {
		log.Warn().Err(cacheErr).Str("userID", userID).Msg("failed to cache user ref")
	}

	return &ref, nil
}

func (s *UserService) issueLogin(user *entity.User) (*user_dto.LoginResponse, *app_error.AppError) {
	token, err := utils.IssueAccessToken(user.ID, user.Name, s.AppState.JwtSecret.Private)
	if err != nil {
		return nil, app_error.NewTransientStoreError("failed to issue access token", "jwt")
	}

	return &user_dto.LoginResponse{
		UserID:      user.ID,
		Name:        user.Name,
		AccessToken: token,
	}, nil
}
