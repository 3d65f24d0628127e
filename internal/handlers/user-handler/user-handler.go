package user_handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kshathishka/collabstudy/internal/dtos/user_dto"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/internal/handlers"
	user_service "github.com/kshathishka/collabstudy/internal/use-case/user-case"
	"github.com/kshathishka/collabstudy/state"
)

type UserHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  user_service.UserServiceContract
}

func NewUserHandler(state *state.AppState) *UserHandler {
	return &UserHandler{
		State:    state,
		Validate: validator.New(),
		Service:  user_service.NewUserService(state),
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req user_dto.RegisterRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, appErr := h.Service.Register(r.Context(), req)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "user registered successfully", *resp)
	return nil
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req user_dto.LoginRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, appErr := h.Service.Login(r.Context(), req)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "login successfully", *resp)
	return nil
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	targetID := chi.URLParam(r, "userId")

	if _, appErr := handlers.AuthUserID(r); appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.ResolveUser(r.Context(), targetID)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "user fetch successfully", *resp)
	return nil
}
