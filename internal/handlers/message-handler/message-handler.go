package message_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/kshathishka/collabstudy/internal/dtos/message_dto"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/internal/handlers"
	"github.com/kshathishka/collabstudy/internal/queue"
	message_service "github.com/kshathishka/collabstudy/internal/use-case/message-case"
	"github.com/kshathishka/collabstudy/internal/utils"
	"github.com/kshathishka/collabstudy/internal/utils/types"
	"github.com/kshathishka/collabstudy/internal/websocket"
	"github.com/kshathishka/collabstudy/state"
)

const notifyPreviewLen = 100

type MessageHandler struct {
	State    *state.AppState
	Producer queue.Producer
	Validate *validator.Validate
	Service  message_service.MessageServiceContract
	Hub      *websocket.Hub
}

func NewMessageHandler(state *state.AppState, hub *websocket.Hub, pageSize int) *MessageHandler {
	validate := validator.New()
	validate.RegisterValidation("objectID", message_dto.ObjectIDValidator)
	return &MessageHandler{
		State:    state,
		Producer: queue.NewProducer(state.Redis),
		Validate: validate,
		Service:  message_service.NewMessageService(state, pageSize),
		Hub:      hub,
	}
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req message_dto.SendMessageRequest
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

	resp, appErr := h.Service.SendMessage(r.Context(), roomID, userID, req)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "message sent successfully", *resp)

	h.Hub.Publish(roomID, websocket.Event{
		Type:     websocket.EventMessageReceived,
		SenderID: userID,
		Data:     resp,
	})

	// notif fan-out, never blocks the send path
	go func() {
		preview := utils.TruncateRunes(resp.Content, notifyPreviewLen)
		job := queue.NewJob(queue.JobNotifyMessageSent, types.MessageSentPayload{
			MessageID: resp.MessageID,
			RoomID:    roomID,
			SenderID:  userID,
			Preview:   preview,
			CreatedAt: resp.CreatedAt,
		}, 2)
		if err := h.Producer.Enqueue(h.State.Ctx, job); err != nil {
			log.Error().Err(err).Str("messageID", resp.MessageID).Msg("failed to enqueue message notification")
		}
	}()

	return nil
}

func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID := chi.URLParam(r, "roomId")

	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	var req message_dto.ListMessagesRequest
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return app_error.NewValidationError("limit must be an integer", "limit")
		}
		req.Limit = limit
	}
	if raw := r.URL.Query().Get("before_seq"); raw != "" {
		beforeSeq, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return app_error.NewValidationError("before_seq must be an integer", "before_seq")
		}
		req.BeforeSeq = &beforeSeq
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, appErr := h.Service.ListRoomMessages(r.Context(), roomID, userID, req)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "messages fetch successfully", *resp)
	return nil
}

func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID := chi.URLParam(r, "roomId")
	messageID := chi.URLParam(r, "messageId")

	if _, appErr := handlers.AuthUserID(r); appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.GetMessage(r.Context(), roomID, messageID)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "message fetch successfully", *resp)
	return nil
}

func (h *MessageHandler) EditMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req message_dto.EditMessageRequest
	defer r.Body.Close()

	roomID := chi.URLParam(r, "roomId")
	messageID := chi.URLParam(r, "messageId")

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

	resp, appErr := h.Service.EditMessage(r.Context(), roomID, messageID, userID, req)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "message updated successfully", *resp)

	h.Hub.Publish(roomID, websocket.Event{
		Type:     websocket.EventMessageEdited,
		SenderID: userID,
		Data:     resp,
	})

	return nil
}

func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID := chi.URLParam(r, "roomId")
	messageID := chi.URLParam(r, "messageId")

	userID, appErr := handlers.AuthUserID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.DeleteMessage(r.Context(), roomID, messageID, userID)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "message deleted successfully", *resp)

	h.Hub.Publish(roomID, websocket.Event{
		Type:     websocket.EventMessageDeleted,
		SenderID: userID,
		Data:     resp,
	})

	return nil
}

func (h *MessageHandler) ToggleReaction(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req message_dto.ToggleReactionRequest
	defer r.Body.Close()

	roomID := chi.URLParam(r, "roomId")
	messageID := chi.URLParam(r, "messageId")

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

	resp, appErr := h.Service.ToggleReaction(r.Context(), roomID, messageID, userID, req)
	if appErr != nil {
		return appErr
	}

	handlers.WriteResponse(w, r, "reaction toggled successfully", *resp)

	h.Hub.Publish(roomID, websocket.Event{
		Type:     websocket.EventReactionChanged,
		SenderID: userID,
		Data:     resp,
	})

	return nil
}
