package room_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kshathishka/collabstudy/internal/dtos/room_dto"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/internal/handlers"
	"github.com/kshathishka/collabstudy/internal/queue"
	room_service "github.com/kshathishka/collabstudy/internal/use-case/room-case"
	"github.com/kshathishka/collabstudy/state"
)

type RoomHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  room_service.RoomServiceContract
}

func NewRoomHandler(state *state.AppState) *RoomHandler {
	return &RoomHandler{
		State:    state,
		Validate: validator.New(),
		Service:  room_service.NewRoomService(state, queue.NewProducer(state.Redis)),
	}
}

func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req room_dto.CreateRoomRequest
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

	resp, appErr := h.Service.CreateRoom(r.Context(), userID, req)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "room created successfully", *resp)
	return nil
}

func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID := chi.URLParam(r, "roomId")

	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.GetRoom(r.Context(), roomID, userID)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "room fetch successfully", *resp)
	return nil
}

func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	if _, appErr := handlers.AuthUserID(r); appErr != nil {
		return appErr
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	resp, appErr := h.Service.ListRooms(r.Context(), limit, offset)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "rooms fetch successfully", resp)
	return nil
}

func (h *RoomHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req room_dto.UpdateRoomRequest
	defer r.Body.Close()

	roomID := chi.URLParam(r, "roomId")
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

	resp, appErr := h.Service.UpdateRoom(r.Context(), roomID, userID, req)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "room updated successfully", *resp)
	return nil
}

func (h *RoomHandler) InviteUser(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req room_dto.InviteUserRequest
	defer r.Body.Close()

	roomID := chi.URLParam(r, "roomId")
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

	if appErr := h.Service.InviteUser(r.Context(), roomID, userID, req); appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "user invited successfully", map[string]any{"invited": req.UserID})
	return nil
}

func (h *RoomHandler) LeaveRoom(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID := chi.URLParam(r, "roomId")

	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	if appErr := h.Service.LeaveRoom(r.Context(), roomID, userID); appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "room left successfully", map[string]any{"left": true})
	return nil
}

func (h *RoomHandler) ListMembers(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID := chi.URLParam(r, "roomId")

	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.ListMembers(r.Context(), roomID, userID)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "members fetch successfully", resp)
	return nil
}
