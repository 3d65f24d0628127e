package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Job types handled by the notification worker pool.
const (
	JobNotifyMessageSent      = "notify_message_sent"
	JobNotifyNoteShared       = "notify_note_shared"
	JobNotifyRoomInvitation   = "notify_room_invitation"
	JobNotifySessionLifecycle = "notify_session_lifecycle"
)

type Job struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Priority  int             `json:"priority"`
	Retry     int             `json:"retry"`
	MaxRetry  int             `json:"max_retry"`
	ErrorMsg  string          `json:"error_msg,omitempty"`
	CreatedAt int64           `json:"created_at"`
	ExpireAt  int64           `json:"expired_at"`
}

// NewJob builds a job with the defaults every notification enqueue shares.
func NewJob(jobType string, payload any, priority int) Job {
	now := time.Now()
	return Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Payload:   MustMarshal(payload),
		Priority:  priority,
		MaxRetry:  3,
		CreatedAt: now.Unix(),
		ExpireAt:  now.Add(10 * time.Minute).Unix(),
	}
}

func MustMarshal(payload any) json.RawMessage {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil
	}

	return b
}
