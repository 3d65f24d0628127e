package message_repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kshathishka/collabstudy/internal/entity"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
)

type MessageRepoContract interface {
	// NextSeq allocates the next per-room sequence number. Strictly
	// increasing per room; ties are impossible.
	NextSeq(ctx context.Context, roomID string) (int64, *app_error.AppError)

	Insert(ctx context.Context, msg *entity.Message) (bson.ObjectID, *app_error.AppError)
	FindByID(ctx context.Context, messageID string) (*entity.Message, *app_error.AppError)
	// FindManyByIDs fetches the given messages of one room, keyed by hex id.
	// Missing ids are simply absent from the result.
	FindManyByIDs(ctx context.Context, roomID string, messageIDs []string) (map[string]*entity.Message, *app_error.AppError)

	UpdateContent(ctx context.Context, id bson.ObjectID, content string, editedAt time.Time) *app_error.AppError
	SoftDelete(ctx context.Context, id bson.ObjectID) *app_error.AppError
	SetReactions(ctx context.Context, id bson.ObjectID, reactions []entity.Reaction) *app_error.AppError

	// ListByRoom pages backwards from beforeSeq (nil means newest), returning
	// up to limit messages oldest-first within the page.
	ListByRoom(ctx context.Context, roomID string, beforeSeq *int64, limit int) ([]*entity.Message, *app_error.AppError)
}
