package notification_service

import (
	"context"

	"github.com/kshathishka/collabstudy/internal/dtos/notification_dto"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
)

type NotificationServiceContract interface {
	ListNotifications(ctx context.Context, recipientID string, req notification_dto.ListNotificationsRequest) (*notification_dto.ListNotificationsResponse, *app_error.AppError)
	UnreadCount(ctx context.Context, recipientID string) (*notification_dto.UnreadCountResponse, *app_error.AppError)
	MarkRead(ctx context.Context, recipientID, notificationID string) (*notification_dto.NotificationResponse, *app_error.AppError)
	MarkAllRead(ctx context.Context, recipientID string) (*notification_dto.MarkAllReadResponse, *app_error.AppError)
	DeleteNotification(ctx context.Context, recipientID, notificationID string) *app_error.AppError
}
