package notification_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/state"
)

const notificationsCollection = "notifications"

type NotificationRepo struct {
	AppState *state.AppState
}

func NewNotificationRepo(appState *state.AppState) NotificationRepoContract {
	return &NotificationRepo{
		AppState: appState,
	}
}

func (r *NotificationRepo) collection() *mongo.Collection {
	return r.AppState.MongoDatabase().Collection(notificationsCollection)
}

func (r *NotificationRepo) Insert(ctx context.Context, n *entity.Notification) *app_error.AppError {
	if !n.Validate() {
		return app_error.NewValidationError("notification payload does not match its type", "data")
	}
	if n.ID.IsZero() {
		n.ID = bson.NewObjectID()
	}

	if _, err := r.collection().InsertOne(ctx, n); err != nil {
		return app_error.NewTransientStoreError(fmt.Sprintf("failed to create notification: %v", err), "mongo")
	}
	return nil
}

func (r *NotificationRepo) InsertMany(ctx context.Context, ns []*entity.Notification) *app_error.AppError {
	if len(ns) == 0 {
		return nil
	}

	docs := make([]any, 0, len(ns))
	for _, n := range ns {
		if !n.Validate() {
			return app_error.NewValidationError("notification payload does not match its type", "data")
		}
		if n.ID.IsZero() {
			n.ID = bson.NewObjectID()
		}
		docs = append(docs, n)
	}

	if _, err := r.collection().InsertMany(ctx, docs); err != nil {
		return app_error.NewTransientStoreError(fmt.Sprintf("failed to create notifications: %v", err), "mongo")
	}
	return nil
}

func (r *NotificationRepo) FindByID(ctx context.Context, notificationID string) (*entity.Notification, *app_error.AppError) {
	objID, err := bson.ObjectIDFromHex(notificationID)
	if err != nil {
		return nil, app_error.NewValidationError(fmt.Sprintf("invalid notification ID: %v", err), "invalid-id")
	}

	var n entity.Notification
	if err := r.collection().FindOne(ctx, bson.M{"_id": objID}).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, app_error.NewNotFoundError("notification not found", "not-found")
		}
		return nil, app_error.NewTransientStoreError(fmt.Sprintf("failed to fetch notification: %v", err), "mongo")
	}

	return &n, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID string) (*entity.Notification, *app_error.AppError) {
	objID, err := bson.ObjectIDFromHex(notificationID)
	if err != nil {
		return nil, app_error.NewValidationError(fmt.Sprintf("invalid notification ID: %v", err), "invalid-id")
	}

	now := time.Now()
	// only unread records get a read_at; re-marking is a no-op
	_, err = r.collection().UpdateOne(ctx,
		bson.M{"_id": objID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": now}},
	)
	if err != nil {
		return nil, app_error.NewTransientStoreError("failed to mark notification as read", "mongo")
	}

	return r.FindByID(ctx, notificationID)
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID string) (int64, *app_error.AppError) {
	now := time.Now()
	result, err := r.collection().UpdateMany(ctx,
		bson.M{"recipient_id": recipientID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": now}},
	)
	if err != nil {
		return 0, app_error.NewTransientStoreError("failed to mark notifications as read", "mongo")
	}
	return result.ModifiedCount, nil
}

func (r *NotificationRepo) UnreadCount(ctx context.Context, recipientID string) (int64, *app_error.AppError) {
	count, err := r.collection().CountDocuments(ctx, bson.M{
		"recipient_id": recipientID,
		"is_read":      false,
	})
	if err != nil {
		return 0, app_error.NewTransientStoreError("failed to count unread notifications", "mongo")
	}
	return count, nil
}

func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID string, beforeID *string, limit int) ([]*entity.Notification, *app_error.AppError) {
	filter := bson.M{"recipient_id": recipientID}
	if beforeID != nil {
		objID, err := bson.ObjectIDFromHex(*beforeID)
		if err != nil {
			return nil, app_error.NewValidationError(fmt.Sprintf("error when trying to parse before_id: %v", err), "before-id")
		}
		filter["_id"] = bson.M{"$lt": objID}
	}

	cur, err := r.collection().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(int64(limit)))
	if err != nil {
		return nil, app_error.NewTransientStoreError(fmt.Sprintf("failed to fetch notifications: %v", err), "mongo")
	}
	defer cur.Close(ctx)

	var notifications []*entity.Notification
	if err := cur.All(ctx, &notifications); err != nil {
		return nil, app_error.NewTransientStoreError(fmt.Sprintf("failed to decode notifications: %v", err), "mongo")
	}

	return notifications, nil
}

func (r *NotificationRepo) Delete(ctx context.Context, notificationID string) *app_error.AppError {
	objID, err := bson.ObjectIDFromHex(notificationID)
	if err != nil {
		return app_error.NewValidationError(fmt.Sprintf("invalid notification ID: %v", err), "invalid-id")
	}

	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return app_error.NewTransientStoreError("failed to delete notification", "mongo")
	}
	if result.DeletedCount == 0 {
		return app_error.NewNotFoundError("notification not found", "not-found")
	}
	return nil
}
