package worker_handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kshathishka/collabstudy/internal/entity"
	"github.com/kshathishka/collabstudy/internal/utils/types"
	"github.com/kshathishka/collabstudy/internal/websocket"
)

// HandleMessageSent fans a new-message notification out to every room member
// except the sender.
func (wh *WorkerHandler) HandleMessageSent(ctx context.Context, raw json.RawMessage) error {
	var payload types.MessageSentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid message-sent payload: %w", err)
	}

	members, appErr := wh.RoomRepo.MembersOf(ctx, payload.RoomID)
	if appErr != nil {
		return fmt.Errorf("resolve room members: %s", appErr.Message)
	}

	recipients := make([]string, 0, len(members))
	for _, userID := range members {
		if userID != payload.SenderID {
			recipients = append(recipients, userID)
		}
	}

	roomID := payload.RoomID
	return wh.deliver(ctx, recipients, &entity.Notification{
		SenderID: payload.SenderID,
		Type:     entity.NotificationNewMessage,
		Title:    "New message",
		Message:  payload.Preview,
		Data:     entity.NotificationData{RoomID: &roomID},
	})
}

func (wh *WorkerHandler) HandleNoteShared(ctx context.Context, raw json.RawMessage) error {
	var payload types.NoteSharedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid note-shared payload: %w", err)
	}

	recipients := make([]string, 0, len(payload.Recipients))
	for _, userID := range payload.Recipients {
		if userID != payload.SharerID {
			recipients = append(recipients, userID)
		}
	}

	noteID := payload.NoteID
	return wh.deliver(ctx, recipients, &entity.Notification{
		SenderID: payload.SharerID,
		Type:     entity.NotificationNoteShared,
		Title:    "Note shared with you",
		Message:  payload.NoteTitle,
		Data:     entity.NotificationData{NoteID: &noteID},
	})
}

func (wh *WorkerHandler) HandleRoomInvitation(ctx context.Context, raw json.RawMessage) error {
	var payload types.RoomInvitationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid room-invitation payload: %w", err)
	}

	roomID := payload.RoomID
	return wh.deliver(ctx, []string{payload.InviteeID}, &entity.Notification{
		SenderID: payload.InviterID,
		Type:     entity.NotificationRoomInvitation,
		Title:    "Room invitation",
		Message:  fmt.Sprintf("You were added to %s", payload.RoomName),
		Data:     entity.NotificationData{RoomID: &roomID},
	})
}

func (wh *WorkerHandler) HandleSessionLifecycle(ctx context.Context, raw json.RawMessage) error {
	var payload types.SessionLifecyclePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid session-lifecycle payload: %w", err)
	}

	notifType := entity.NotificationSessionStarted
	title := "Session started"
	if payload.Kind == types.SessionKindEnded {
		notifType = entity.NotificationSessionEnded
		title = "Session ended"
	}

	members, appErr := wh.RoomRepo.MembersOf(ctx, payload.RoomID)
	if appErr != nil {
		return fmt.Errorf("resolve room members: %s", appErr.Message)
	}

	recipients := make([]string, 0, len(members))
	for _, userID := range members {
		if userID != payload.HostID {
			recipients = append(recipients, userID)
		}
	}

	sessionID := payload.SessionID
	return wh.deliver(ctx, recipients, &entity.Notification{
		SenderID: payload.HostID,
		Type:     notifType,
		Title:    title,
		Message:  payload.SessionTitle,
		Data:     entity.NotificationData{SessionID: &sessionID},
	})
}

// deliver persists one notification per recipient, then pushes the live
// event to every recipient connection. Persistence failure fails the job so
// the queue retries; push failures do not, delivery there is best-effort.
func (wh *WorkerHandler) deliver(ctx context.Context, recipients []string, template *entity.Notification) error {
	if len(recipients) == 0 {
		return nil
	}

	now := time.Now().UTC()
	notifications := make([]*entity.Notification, 0, len(recipients))
	for _, recipientID := range recipients {
		n := *template
		n.RecipientID = recipientID
		n.CreatedAt = now
		notifications = append(notifications, &n)
	}

	if err := wh.NotificationRepo.InsertMany(ctx, notifications); err != nil {
		return fmt.Errorf("persist notifications: %s", err.Message)
	}

	if wh.Ws == nil {
		return nil
	}

	for _, n := range notifications {
		wh.Ws.PublishToUser(n.RecipientID, websocket.Event{
			Type:      websocket.EventNotification,
			SenderID:  n.SenderID,
			Data:      n,
			Timestamp: now.Unix(),
		})
	}

	log.Debug().Int("recipients", len(notifications)).Str("type", template.Type).Msg("notification fan-out completed")
	return nil
}
