package worker_handler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/internal/utils/types"
)

type fakeNotificationRepo struct {
	inserted []*entity.Notification
}

func (f *fakeNotificationRepo) Insert(_ context.Context, n *entity.Notification) *app_error.AppError {
	f.inserted = append(f.inserted, n)
	return nil
}

func (f *fakeNotificationRepo) InsertMany(_ context.Context, ns []*entity.Notification) *app_error.AppError {
	for _, n := range ns {
		if !n.Validate() {
			return app_error.NewValidationError("invalid notification payload", "data")
		}
	}
	f.inserted = append(f.inserted, ns...)
	return nil
}

func (f *fakeNotificationRepo) FindByID(_ context.Context, _ string) (*entity.Notification, *app_error.AppError) {
	return nil, app_error.NewNotFoundError("notification not found", "not-found")
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, _ string) (*entity.Notification, *app_error.AppError) {
	return nil, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, _ string) (int64, *app_error.AppError) {
	return 0, nil
}

func (f *fakeNotificationRepo) UnreadCount(_ context.Context, _ string) (int64, *app_error.AppError) {
	return int64(len(f.inserted)), nil
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, _ string, _ *string, _ int) ([]*entity.Notification, *app_error.AppError) {
	return f.inserted, nil
}

func (f *fakeNotificationRepo) Delete(_ context.Context, _ string) *app_error.AppError {
	return nil
}

type fakeRoomRepo struct {
	members map[string][]string
}

func (f *fakeRoomRepo) CreateRoom(_ context.Context, _ *entity.Room, _ string) *app_error.AppError {
	return nil
}

func (f *fakeRoomRepo) FindRoomByID(_ context.Context, _ string) (*entity.Room, *app_error.AppError) {
	return nil, app_error.NewNotFoundError("room not found", "not-found")
}

func (f *fakeRoomRepo) ListRooms(_ context.Context, _, _ int) ([]*entity.Room, *app_error.AppError) {
	return nil, nil
}

func (f *fakeRoomRepo) UpdateRoom(_ context.Context, _ *entity.Room) *app_error.AppError {
	return nil
}

func (f *fakeRoomRepo) AddMember(_ context.Context, _, _, _ string) *app_error.AppError {
	return nil
}

func (f *fakeRoomRepo) RemoveMember(_ context.Context, _, _ string) *app_error.AppError {
	return nil
}

func (f *fakeRoomRepo) IsMember(_ context.Context, roomID, userID string) (bool, *app_error.AppError) {
	for _, id := range f.members[roomID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRoomRepo) MembersOf(_ context.Context, roomID string) ([]string, *app_error.AppError) {
	return f.members[roomID], nil
}

func (f *fakeRoomRepo) FindMembers(_ context.Context, _ string) ([]*entity.RoomMember, *app_error.AppError) {
	return nil, nil
}

func newTestHandler(members map[string][]string) (*WorkerHandler, *fakeNotificationRepo) {
	notifRepo := &fakeNotificationRepo{}
	return &WorkerHandler{
		NotificationRepo: notifRepo,
		RoomRepo:         &fakeRoomRepo{members: members},
	}, notifRepo
}

func mustMarshal(t *testing.T, payload any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return raw
}

func TestHandleMessageSent_FansOutToEveryoneButSender(t *testing.T) {
	handler, notifRepo := newTestHandler(map[string][]string{
		"room-1": {"alice", "bob", "carol"},
	})

	raw := mustMarshal(t, types.MessageSentPayload{
		MessageID: "m1",
		RoomID:    "room-1",
		SenderID:  "alice",
		Preview:   "hello room",
	})

	require.NoError(t, handler.HandleMessageSent(context.Background(), raw))
	require.Len(t, notifRepo.inserted, 2)

	recipients := map[string]bool{}
	for _, n := range notifRepo.inserted {
		recipients[n.RecipientID] = true
		assert.Equal(t, entity.NotificationNewMessage, n.Type)
		assert.Equal(t, "alice", n.SenderID)
		require.NotNil(t, n.Data.RoomID)
		assert.Equal(t, "room-1", *n.Data.RoomID)
		assert.False(t, n.IsRead)
	}
	assert.True(t, recipients["bob"])
	assert.True(t, recipients["carol"])
	assert.False(t, recipients["alice"], "sender never notifies themselves")
}

func TestHandleMessageSent_InvalidPayload(t *testing.T) {
	handler, notifRepo := newTestHandler(nil)

	err := handler.HandleMessageSent(context.Background(), json.RawMessage(`{broken`))
	assert.Error(t, err)
	assert.Empty(t, notifRepo.inserted)
}

func TestHandleRoomInvitation_SingleRecipient(t *testing.T) {
	handler, notifRepo := newTestHandler(nil)

	raw := mustMarshal(t, types.RoomInvitationPayload{
		RoomID:    "room-1",
		RoomName:  "Algebra study",
		InviterID: "alice",
		InviteeID: "bob",
	})

	require.NoError(t, handler.HandleRoomInvitation(context.Background(), raw))
	require.Len(t, notifRepo.inserted, 1)

	n := notifRepo.inserted[0]
	assert.Equal(t, "bob", n.RecipientID)
	assert.Equal(t, entity.NotificationRoomInvitation, n.Type)
	assert.Contains(t, n.Message, "Algebra study")
}

func TestHandleNoteShared_SkipsSharer(t *testing.T) {
	handler, notifRepo := newTestHandler(nil)

	raw := mustMarshal(t, types.NoteSharedPayload{
		NoteID:     "n1",
		NoteTitle:  "Week 3 summary",
		SharerID:   "alice",
		Recipients: []string{"bob", "alice", "carol"},
	})

	require.NoError(t, handler.HandleNoteShared(context.Background(), raw))
	require.Len(t, notifRepo.inserted, 2)
	for _, n := range notifRepo.inserted {
		assert.NotEqual(t, "alice", n.RecipientID)
		assert.Equal(t, entity.NotificationNoteShared, n.Type)
		require.NotNil(t, n.Data.NoteID)
	}
}

func TestHandleSessionLifecycle_EndedUsesEndedType(t *testing.T) {
	handler, notifRepo := newTestHandler(map[string][]string{
		"room-1": {"host", "bob"},
	})

	raw := mustMarshal(t, types.SessionLifecyclePayload{
		SessionID:    "s1",
		SessionTitle: "Evening review",
		RoomID:       "room-1",
		HostID:       "host",
		Kind:         types.SessionKindEnded,
	})

	require.NoError(t, handler.HandleSessionLifecycle(context.Background(), raw))
	require.Len(t, notifRepo.inserted, 1)

	n := notifRepo.inserted[0]
	assert.Equal(t, "bob", n.RecipientID)
	assert.Equal(t, entity.NotificationSessionEnded, n.Type)
	require.NotNil(t, n.Data.SessionID)
	assert.Equal(t, "s1", *n.Data.SessionID)
}

func TestDeliver_NoRecipientsIsNoop(t *testing.T) {
	handler, notifRepo := newTestHandler(map[string][]string{
		"room-1": {"alice"},
	})

	raw := mustMarshal(t, types.MessageSentPayload{
		MessageID: "m1",
		RoomID:    "room-1",
		SenderID:  "alice",
	})

	require.NoError(t, handler.HandleMessageSent(context.Background(), raw))
	assert.Empty(t, notifRepo.inserted, "a room of one produces no notifications")
}
