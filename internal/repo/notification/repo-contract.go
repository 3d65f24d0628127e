package notification_repo

import (
	"context"

	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
)

type NotificationRepoContract interface {
	Insert(ctx context.Context, n *entity.Notification) *app_error.AppError
	InsertMany(ctx context.Context, ns []*entity.Notification) *app_error.AppError

	FindByID(ctx context.Context, notificationID string) (*entity.Notification, *app_error.AppError)
	// MarkRead is idempotent; marking an already-read notification changes
	// nothing and returns the current record.
	MarkRead(ctx context.Context, notificationID string) (*entity.Notification, *app_error.AppError)
	MarkAllRead(ctx context.Context, recipientID string) (int64, *app_error.AppError)
	UnreadCount(ctx context.Context, recipientID string) (int64, *app_error.AppError)
	ListByRecipient(ctx context.Context, recipientID string, beforeID *string, limit int) ([]*entity.Notification, *app_error.AppError)
	Delete(ctx context.Context, notificationID string) *app_error.AppError
}
