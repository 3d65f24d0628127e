package notification_service

import (
	"context"

	"github.com/kshathishka/collabstudy/internal/dtos/notification_dto"
	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	notification_repo "github.com/kshathishka/collabstudy/internal/repo/notification"
	"github.com/kshathishka/collabstudy/state"
)

const defaultPageSize = 20

type NotificationService struct {
	AppState         *state.AppState
	NotificationRepo notification_repo.NotificationRepoContract
	PageSize         int
}

func NewNotificationService(appState *state.AppState) NotificationServiceContract {
	return &NotificationService{
		AppState:         appState,
		NotificationRepo: notification_repo.NewNotificationRepo(appState),
		PageSize:         defaultPageSize,
	}
}

func (s *NotificationService) ListNotifications(ctx context.Context, recipientID string, req notification_dto.ListNotificationsRequest) (*notification_dto.ListNotificationsResponse, *app_error.AppError) {
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = s.PageSize
		if limit <= 0 {
			limit = defaultPageSize
		}
	}

	notifications, err := s.NotificationRepo.ListByRecipient(ctx, recipientID, req.BeforeID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]notification_dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, *buildNotificationResponse(n))
	}

	var nextCursor *string
	if len(notifications) > 0 {
		oldest := notifications[len(notifications)-1].ID.Hex()
		nextCursor = &oldest
	}

	return &notification_dto.ListNotificationsResponse{
		Notifications: responses,
		NextCursor:    nextCursor,
		HasMore:       len(notifications) == limit,
	}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID string) (*notification_dto.UnreadCountResponse, *app_error.AppError) {
	count, err := s.NotificationRepo.UnreadCount(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	return &notification_dto.UnreadCountResponse{Count: count}, nil
}

// MarkRead acknowledges one notification. Idempotent: acknowledging twice
// returns the record unchanged.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID string) (*notification_dto.NotificationResponse, *app_error.AppError) {
	if err := s.requireRecipient(ctx, recipientID, notificationID); err != nil {
		return nil, err
	}

	n, err := s.NotificationRepo.MarkRead(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	return buildNotificationResponse(n), nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) (*notification_dto.MarkAllReadResponse, *app_error.AppError) {
	updated, err := s.NotificationRepo.MarkAllRead(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	return &notification_dto.MarkAllReadResponse{Updated: updated}, nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, recipientID, notificationID string) *app_error.AppError {
	if err := s.requireRecipient(ctx, recipientID, notificationID); err != nil {
		return err
	}
	return s.NotificationRepo.Delete(ctx, notificationID)
}

// requireRecipient loads the notification and verifies ownership. Someone
// else's notification reads as not-found so ids do not leak.
func (s *NotificationService) requireRecipient(ctx context.Context, recipientID, notificationID string) *app_error.AppError {
	n, err := s.NotificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.RecipientID != recipientID {
		return app_error.NewNotFoundError("notification not found", "not-found")
	}
	return nil
}

func buildNotificationResponse(n *entity.Notification) *notification_dto.NotificationResponse {
	return &notification_dto.NotificationResponse{
		ID:        n.ID.Hex(),
		SenderID:  n.SenderID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
