package queue

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const (
	PriorityQueueKey = "priority_queue"
	DLQKey           = "priority_queue_dlq"
)

type Producer interface {
	Enqueue(ctx context.Context, job Job) error
}

type RedisProducer struct {
	Redis *redis.Client
}

func NewProducer(redis *redis.Client) Producer {
	return &RedisProducer{Redis: redis}
}

func (p *RedisProducer) Enqueue(ctx context.Context, job Job) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return err
	}

	// score = ready-at time, so the poller's "score <= now" predicate sees
	// the job immediately. Priority biases the score below the creation
	// second: among jobs ready at the same time the higher priority pops
	// first. Retries re-enter the set scored by their retry-at time.
	score := float64(job.CreatedAt) - float64(job.Priority)/10
	return p.Redis.ZAdd(ctx, PriorityQueueKey, redis.Z{
		Score:  score,
		Member: jobBytes,
	}).Err()
}
