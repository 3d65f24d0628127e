package notification_handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kshathishka/collabstudy/internal/dtos/notification_dto"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/internal/handlers"
	notification_service "github.com/kshathishka/collabstudy/internal/use-case/notification-case"
	"github.com/kshathishka/collabstudy/state"
)

type NotificationHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  notification_service.NotificationServiceContract
}

func NewNotificationHandler(state *state.AppState) *NotificationHandler {
	return &NotificationHandler{
		State:    state,
		Validate: validator.New(),
		Service:  notification_service.NewNotificationService(state),
	}
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	var req notification_dto.ListNotificationsRequest
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return app_error.NewValidationError("limit must be an integer", "limit")
		}
		req.Limit = limit
	}
	if raw := r.URL.Query().Get("before_id"); raw != "" {
		req.BeforeID = &raw
	}

	resp, appErr := h.Service.ListNotifications(r.Context(), userID, req)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "notifications fetch successfully", *resp)
	return nil
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.UnreadCount(r.Context(), userID)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "unread count fetch successfully", *resp)
	return nil
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	notificationID := chi.URLParam(r, "notificationId")

	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.MarkRead(r.Context(), userID, notificationID)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "notification marked as read", *resp)
	return nil
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.MarkAllRead(r.Context(), userID)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "all notifications marked as read", *resp)
	return nil
}

func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	notificationID := chi.URLParam(r, "notificationId")

	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	if appErr := h.Service.DeleteNotification(r.Context(), userID, notificationID); appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "notification deleted successfully", map[string]any{"deleted": true})
	return nil
}
