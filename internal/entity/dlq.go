package entity

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DLQJob is a notification job that exhausted its queue retries, persisted
// for audit and slow retry.
type DLQJob struct {
	ID                 bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	JobID              string          `bson:"job_id" json:"job_id"`
	Type               string          `bson:"type" json:"type"`
	Payload            json.RawMessage `bson:"payload" json:"payload"`
	Status             string          `bson:"status" json:"status"`
	RetryCount         int             `bson:"retry_count" json:"retry_count"`
	OriginalRetryCount int             `bson:"original_retry_count" json:"original_retry_count"`
	ErrorMsg           string          `bson:"error_msg,omitempty" json:"error_msg,omitempty"`
	NextRetryAt        *time.Time      `bson:"next_retry_at,omitempty" json:"next_retry_at,omitempty"`
	CreatedAt          time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `bson:"updated_at" json:"updated_at"`
	ExpireAt           time.Time       `bson:"expire_at" json:"expire_at"`
}

const (
	DLQStatusPending           = "pending"
	DLQStatusProcessing        = "processing"
	DLQStatusFailed            = "failed"
	DLQStatusCompleted         = "completed"
	DLQStatusPermanentlyFailed = "permanently_failed"
)
