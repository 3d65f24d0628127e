package message_repo

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

const messagesCollection = "messages"

type MessageRepo struct {
	AppState *state.AppState
}

func NewMessageRepo(appState *state.AppState) MessageRepoContract {
	return &MessageRepo{
		AppState: appState,
	}
}

func (r *MessageRepo) collection() *mongo.Collection {
	return r.AppState.MongoDatabase().Collection(messagesCollection)
}

func (r *MessageRepo) NextSeq(ctx context.Context, roomID string) (int64, *app_error.AppError) {
	seq, err := r.AppState.Redis.Incr(ctx, fmt.Sprintf("room:%s:seq", roomID)).Result()
	if err != nil {
		return 0, app_error.NewTransientStoreError("failed to allocate message sequence", "redis")
	}
	return seq, nil
}

func (r *MessageRepo) Insert(ctx context.Context, msg *entity.Message) (bson.ObjectID, *app_error.AppError) {
	if msg.ID.IsZero() {
		msg.ID = bson.NewObjectID()
	}
	if msg.Reactions == nil {
		msg.Reactions = []entity.Reaction{}
	}

	if _, err := r.collection().InsertOne(ctx, msg); err != nil {
		return bson.NilObjectID, app_error.NewTransientStoreError(fmt.Sprintf("failed to create message: %v", err), "mongo")
	}
	return msg.ID, nil
}

func (r *MessageRepo) FindByID(ctx context.Context, messageID string) (*entity.Message, *app_error.AppError) {
	objID, err := bson.ObjectIDFromHex(messageID)
	if err != nil {
		return nil, app_error.NewValidationError(fmt.Sprintf("invalid message ID: %v", err), "invalid-id")
	}

	var message entity.Message
	if err := r.collection().FindOne(ctx, bson.M{"_id": objID}).Decode(&message); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, app_error.NewNotFoundError("message not found", "not-found")
		}
		return nil, app_error.NewTransientStoreError(fmt.Sprintf("failed to fetch message: %v", err), "mongo")
	}

	return &message, nil
}

func (r *MessageRepo) FindManyByIDs(ctx context.Context, roomID string, messageIDs []string) (map[string]*entity.Message, *app_error.AppError) {
	result := make(map[string]*entity.Message, len(messageIDs))
	if len(messageIDs) == 0 {
		return result, nil
	}

	objIDs := make([]bson.ObjectID, 0, len(messageIDs))
	for _, id := range messageIDs {
		objID, err := bson.ObjectIDFromHex(id)
		if err != nil {
			continue // broken reference, resolved as unavailable
		}
		objIDs = append(objIDs, objID)
	}

	cur, err := r.collection().Find(ctx, bson.M{
		"_id":     bson.M{"$in": objIDs},
		"room_id": roomID,
	})
	if err != nil {
		return nil, app_error.NewTransientStoreError(fmt.Sprintf("failed to fetch messages: %v", err), "mongo")
	}
	defer cur.Close(ctx)

	var messages []*entity.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, app_error.NewTransientStoreError(fmt.Sprintf("failed to decode messages: %v", err), "mongo")
	}

	for _, msg := range messages {
		result[msg.ID.Hex()] = msg
	}
	return result, nil
}

func (r *MessageRepo) UpdateContent(ctx context.Context, id bson.ObjectID, content string, editedAt time.Time) *app_error.AppError {
	// is_deleted guard keeps a racing delete from being overwritten
	filter := bson.M{"_id": id, "is_deleted": false}
	update := bson.M{
		"$set": bson.M{
			"content":   content,
			"is_edited": true,
			"edited_at": editedAt,
		},
	}

	result, err := r.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return app_error.NewTransientStoreError("failed to update message", "mongo")
	}
	if result.MatchedCount == 0 {
		return app_error.NewInvalidStateError("message was deleted by another operation", "concurrent-update")
	}
	return nil
}

func (r *MessageRepo) SoftDelete(ctx context.Context, id bson.ObjectID) *app_error.AppError {
	update := bson.M{
		"$set": bson.M{
			"content":    entity.DeletedMessageContent,
			"is_deleted": true,
		},
	}

	result, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return app_error.NewTransientStoreError("failed to delete message", "mongo")
	}
	if result.MatchedCount == 0 {
		return app_error.NewNotFoundError("message not found", "not-found")
	}
	return nil
}

func (r *MessageRepo) SetReactions(ctx context.Context, id bson.ObjectID, reactions []entity.Reaction) *app_error.AppError {
	if reactions == nil {
		reactions = []entity.Reaction{}
	}

	result, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": bson.M{"reactions": reactions}},
	)
	if err != nil {
		return app_error.NewTransientStoreError("failed to update reactions", "mongo")
	}
	if result.MatchedCount == 0 {
		return app_error.NewNotFoundError("message not found or has been deleted", "not-found")
	}
	return nil
}

func (r *MessageRepo) ListByRoom(ctx context.Context, roomID string, beforeSeq *int64, limit int) ([]*entity.Message, *app_error.AppError) {
	filter := bson.M{"room_id": roomID}
	if beforeSeq != nil {
		filter["seq"] = bson.M{"$lt": *beforeSeq}
	}

	// newest page first, then reversed to oldest-first inside the page
	cur, err := r.collection().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "seq", Value: -1}}).SetLimit(int64(limit)))
	if err != nil {
		return nil, app_error.NewTransientStoreError(fmt.Sprintf("failed to fetch messages: %v", err), "mongo")
	}
	defer cur.Close(ctx)

	var messages []*entity.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, app_error.NewTransientStoreError(fmt.Sprintf("failed to decode messages: %v", err), "mongo")
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
