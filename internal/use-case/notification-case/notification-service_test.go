package notification_service

import (
	"context"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kshathishka/collabstudy/internal/dtos/notification_dto"
	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
)

type fakeNotificationRepo struct {
	store map[string]*entity.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{store: make(map[string]*entity.Notification)}
}

func (f *fakeNotificationRepo) Insert(_ context.Context, n *entity.Notification) *app_error.AppError {
	if n.ID.IsZero() {
		n.ID = bson.NewObjectID()
	}
	c := *n
	f.store[n.ID.Hex()] = &c
	return nil
}

func (f *fakeNotificationRepo) InsertMany(ctx context.Context, ns []*entity.Notification) *app_error.AppError {
	for _, n := range ns {
		if err := f.Insert(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeNotificationRepo) FindByID(_ context.Context, notificationID string) (*entity.Notification, *app_error.AppError) {
	n, ok := f.store[notificationID]
	if !ok {
		return nil, app_error.NewNotFoundError("notification not found", "not-found")
	}
	c := *n
	return &c, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, notificationID string) (*entity.Notification, *app_error.AppError) {
	n, ok := f.store[notificationID]
	if !ok {
		return nil, app_error.NewNotFoundError("notification not found", "not-found")
	}
	if !n.IsRead {
		now := time.Now().UTC()
		n.IsRead = true
		n.ReadAt = &now
	}
	c := *n
	return &c, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, recipientID string) (int64, *app_error.AppError) {
	var updated int64
	now := time.Now().UTC()
	for _, n := range f.store {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
			updated++
		}
	}
	return updated, nil
}

func (f *fakeNotificationRepo) UnreadCount(_ context.Context, recipientID string) (int64, *app_error.AppError) {
	var count int64
	for _, n := range f.store {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string, beforeID *string, limit int) ([]*entity.Notification, *app_error.AppError) {
	var list []*entity.Notification
	for _, n := range f.store {
		if n.RecipientID != recipientID {
			continue
		}
		if beforeID != nil && n.ID.Hex() >= *beforeID {
			continue
		}
		c := *n
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID.Hex() > list[j].ID.Hex() })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeNotificationRepo) Delete(_ context.Context, notificationID string) *app_error.AppError {
	if _, ok := f.store[notificationID]; !ok {
		return app_error.NewNotFoundError("notification not found", "not-found")
	}
	delete(f.store, notificationID)
	return nil
}

func newTestService() (*NotificationService, *fakeNotificationRepo) {
	repo := newFakeNotificationRepo()
	return &NotificationService{NotificationRepo: repo, PageSize: 20}, repo
}

func seed(t *testing.T, repo *fakeNotificationRepo, recipientID string, count int) []string {
	t.Helper()
	roomID := "room-1"
	var ids []string
	for i := 0; i < count; i++ {
		n := &entity.Notification{
			RecipientID: recipientID,
			SenderID:    "sender",
			Type:        entity.NotificationNewMessage,
			Title:       "New message",
			Message:     "hello",
			Data:        entity.NotificationData{RoomID: &roomID},
			CreatedAt:   time.Now().UTC(),
		}
		require.Nil(t, repo.Insert(context.Background(), n))
		ids = append(ids, n.ID.Hex())
	}
	return ids
}

func TestMarkRead_Idempotent(t *testing.T) {
	svc, repo := newTestService()
	ids := seed(t, repo, "bob", 1)

	first, err := svc.MarkRead(context.Background(), "bob", ids[0])
	require.Nil(t, err)
	assert.True(t, first.IsRead)
	require.NotNil(t, first.ReadAt)

	second, err := svc.MarkRead(context.Background(), "bob", ids[0])
	require.Nil(t, err)
	assert.True(t, second.IsRead)
	assert.Equal(t, first.ReadAt.Unix(), second.ReadAt.Unix(), "second ack keeps the original read time")
}

func TestMarkRead_OtherRecipientReadsAsNotFound(t *testing.T) {
	svc, repo := newTestService()
	ids := seed(t, repo, "bob", 1)

	_, err := svc.MarkRead(context.Background(), "eve", ids[0])
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.Code)
}

func TestMarkAllRead_ZeroesUnreadCount(t *testing.T) {
	svc, repo := newTestService()
	seed(t, repo, "bob", 3)
	seed(t, repo, "carol", 2)

	resp, err := svc.MarkAllRead(context.Background(), "bob")
	require.Nil(t, err)
	assert.Equal(t, int64(3), resp.Updated)

	count, err := svc.UnreadCount(context.Background(), "bob")
	require.Nil(t, err)
	assert.Equal(t, int64(0), count.Count)

	// other recipients untouched
	carolCount, err := svc.UnreadCount(context.Background(), "carol")
	require.Nil(t, err)
	assert.Equal(t, int64(2), carolCount.Count)
}

func TestListNotifications_CursorPagination(t *testing.T) {
	svc, repo := newTestService()
	seed(t, repo, "bob", 5)

	page1, err := svc.ListNotifications(context.Background(), "bob", notification_dto.ListNotificationsRequest{Limit: 2})
	require.Nil(t, err)
	require.Len(t, page1.Notifications, 2)
	assert.True(t, page1.HasMore)
	require.NotNil(t, page1.NextCursor)

	page2, err := svc.ListNotifications(context.Background(), "bob", notification_dto.ListNotificationsRequest{Limit: 2, BeforeID: page1.NextCursor})
	require.Nil(t, err)
	require.Len(t, page2.Notifications, 2)

	seen := map[string]bool{}
	for _, n := range append(page1.Notifications, page2.Notifications...) {
		assert.False(t, seen[n.ID], "pages must not overlap")
		seen[n.ID] = true
	}
}

func TestDeleteNotification_RecipientOnly(t *testing.T) {
	svc, repo := newTestService()
	ids := seed(t, repo, "bob", 1)

	err := svc.DeleteNotification(context.Background(), "eve", ids[0])
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.Code)

	require.Nil(t, svc.DeleteNotification(context.Background(), "bob", ids[0]))
	_, findErr := repo.FindByID(context.Background(), ids[0])
	require.NotNil(t, findErr)
}
