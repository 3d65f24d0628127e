package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProducer(t *testing.T) (Producer, *miniredis.Miniredis) {
	t.Helper()
	mockRedis := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mockRedis.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewProducer(client), mockRedis
}

func TestEnqueue_JobIsImmediatelyReady(t *testing.T) {
	producer, mockRedis := newTestProducer(t)

	job := NewJob(JobNotifyMessageSent, map[string]string{"room_id": "room-1"}, 2)
	require.NoError(t, producer.Enqueue(context.Background(), job))

	members, err := mockRedis.ZMembers(PriorityQueueKey)
	require.NoError(t, err)
	require.Len(t, members, 1)

	var stored Job
	require.NoError(t, json.Unmarshal([]byte(members[0]), &stored))
	assert.Equal(t, job.ID, stored.ID)
	assert.Equal(t, JobNotifyMessageSent, stored.Type)
	assert.Equal(t, 3, stored.MaxRetry)

	// the poller pops members scored at or below the current time; a fresh
	// job must already satisfy that predicate
	score, err := mockRedis.ZScore(PriorityQueueKey, members[0])
	require.NoError(t, err)
	assert.LessOrEqual(t, score, float64(time.Now().Unix()))
}

func TestEnqueue_HigherPriorityPopsFirst(t *testing.T) {
	producer, mockRedis := newTestProducer(t)

	low := NewJob(JobNotifyMessageSent, nil, 1)
	high := NewJob(JobNotifyRoomInvitation, nil, 3)
	require.NoError(t, producer.Enqueue(context.Background(), low))
	require.NoError(t, producer.Enqueue(context.Background(), high))

	members, err := mockRedis.ZMembers(PriorityQueueKey)
	require.NoError(t, err)
	require.Len(t, members, 2)

	// ZMembers returns ascending score; the poller pops the lowest score,
	// so the higher-priority job must come first
	var first Job
	require.NoError(t, json.Unmarshal([]byte(members[0]), &first))
	assert.Equal(t, high.ID, first.ID)
}

func TestNewJob_Defaults(t *testing.T) {
	job := NewJob(JobNotifyNoteShared, map[string]string{"note_id": "n1"}, 1)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, JobNotifyNoteShared, job.Type)
	assert.NotNil(t, job.Payload)
	assert.Equal(t, 0, job.Retry)
	assert.Greater(t, job.ExpireAt, job.CreatedAt)
}
