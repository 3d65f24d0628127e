package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshathishka/collabstudy/internal/queue"
)

func newPollPool(t *testing.T) (*WorkerPool, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mockRedis := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mockRedis.Addr()})
	t.Cleanup(func() { client.Close() })
	return &WorkerPool{Redis: client}, mockRedis, client
}

func TestPopReady_FreshEnqueueIsPoppable(t *testing.T) {
	wp, _, client := newPollPool(t)

	producer := queue.NewProducer(client)
	job := queue.NewJob(queue.JobNotifyMessageSent, map[string]string{"room_id": "room-1"}, 2)
	require.NoError(t, producer.Enqueue(context.Background(), job))

	payload, ok := wp.popReady(context.Background())
	require.True(t, ok, "a job enqueued now must be ready now")

	var popped queue.Job
	require.NoError(t, json.Unmarshal([]byte(payload), &popped))
	assert.Equal(t, job.ID, popped.ID)

	// popping removes the member
	_, ok = wp.popReady(context.Background())
	assert.False(t, ok)
}

func TestPopReady_EmptyQueueNotReady(t *testing.T) {
	wp, _, _ := newPollPool(t)

	_, ok := wp.popReady(context.Background())
	assert.False(t, ok, "empty queue must report not-ready so the poller sleeps")
}

func TestPopReady_RetryScoreStaysDelayed(t *testing.T) {
	wp, _, client := newPollPool(t)

	job := queue.NewJob(queue.JobNotifyMessageSent, nil, 2)
	jobBytes, err := json.Marshal(job)
	require.NoError(t, err)

	retryAt := time.Now().Add(time.Minute).Unix()
	require.NoError(t, client.ZAdd(context.Background(), queue.PriorityQueueKey, redis.Z{
		Score:  float64(retryAt),
		Member: jobBytes,
	}).Err())

	_, ok := wp.popReady(context.Background())
	assert.False(t, ok, "a retry scheduled in the future must not pop early")
}

func TestPopReady_RedisErrorNotReady(t *testing.T) {
	wp, mockRedis, _ := newPollPool(t)
	mockRedis.Close()

	_, ok := wp.popReady(context.Background())
	assert.False(t, ok, "redis failure must report not-ready so the poller backs off")
}
