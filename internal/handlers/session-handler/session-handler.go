package session_handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kshathishka/collabstudy/internal/dtos/session_dto"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/internal/handlers"
	"github.com/kshathishka/collabstudy/internal/queue"
	session_service "github.com/kshathishka/collabstudy/internal/use-case/session-case"
	"github.com/kshathishka/collabstudy/state"
)

type SessionHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  session_service.SessionServiceContract
}

func NewSessionHandler(state *state.AppState) *SessionHandler {
	return &SessionHandler{
		State:    state,
		Validate: validator.New(),
		Service:  session_service.NewSessionService(state, queue.NewProducer(state.Redis)),
	}
}

func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req session_dto.CreateSessionRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.CreateSession(r.Context(), userID, req)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "session created successfully", *resp)
	return nil
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	sessionID := chi.URLParam(r, "sessionId")

	if _, appErr := handlers.AuthUserID(r); appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.GetSession(r.Context(), sessionID)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "session fetch successfully", *resp)
	return nil
}

func (h *SessionHandler) ListRoomSessions(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID := chi.URLParam(r, "roomId")

	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.ListRoomSessions(r.Context(), roomID, userID)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "sessions fetch successfully", resp)
	return nil
}

func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	return h.transition(w, r, h.Service.StartSession, "session started successfully")
}

func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	return h.transition(w, r, h.Service.EndSession, "session ended successfully")
}

func (h *SessionHandler) CancelSession(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	return h.transition(w, r, h.Service.CancelSession, "session cancelled successfully")
}

func (h *SessionHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, sessionID, actorID string) (*session_dto.SessionResponse, *app_error.AppError),
	message string,
) *app_error.AppError {
	sessionID := chi.URLParam(r, "sessionId")

	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := fn(r.Context(), sessionID, userID)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, message, *resp)
	return nil
}
