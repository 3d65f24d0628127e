package worker

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kshathishka/collabstudy/internal/entity"
	"github.com/kshathishka/collabstudy/internal/queue"
)

// StartDLQRetryConsumer periodically re-runs persisted DLQ jobs with a much
// slower backoff than the hot queue.
func (wp *WorkerPool) StartDLQRetryConsumer(ctx context.Context) {
	wp.wg.Add(1)
	go func() {
		defer wp.wg.Done()

		log.Info().Msg("DLQ retry consumer started")
		ticker := time.NewTicker(wp.DLQConfig.RetryInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("DLQ retry consumer stopping")
				return
			case <-ticker.C:
				wp.processDLQJobs(ctx)
			}
		}
	}()
}

func (wp *WorkerPool) processDLQJobs(ctx context.Context) {
	collection := wp.AppState.MongoDatabase().Collection(wp.DLQConfig.CollectionName)

	filter := bson.M{
		"status":      bson.M{"$in": []string{entity.DLQStatusPending, entity.DLQStatusFailed}},
		"retry_count": bson.M{"$lt": wp.DLQConfig.MaxRetryCount},
		"$or": []bson.M{
			{"next_retry_at": bson.M{"$exists": false}},
			{"next_retry_at": bson.M{"$lte": time.Now().UTC()}},
		},
	}

	opts := options.Find().SetSort(bson.M{"created_at": 1}).SetLimit(int64(wp.DLQConfig.BatchSize))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query DLQ jobs")
		return
	}
	defer cursor.Close(ctx)

	var dlqJobs []entity.DLQJob
	if err := cursor.All(ctx, &dlqJobs); err != nil {
		log.Error().Err(err).Msg("Failed to decode DLQ jobs")
		return
	}

	if len(dlqJobs) == 0 {
		return
	}

	log.Info().Int("count", len(dlqJobs)).Msg("Processing DLQ jobs")

	for _, dlqJob := range dlqJobs {
		wp.retryDLQJob(ctx, collection, &dlqJob)
	}
}

func (wp *WorkerPool) retryDLQJob(ctx context.Context, collection *mongo.Collection, dlqJob *entity.DLQJob) {
	_, err := collection.UpdateOne(ctx, bson.M{"_id": dlqJob.ID}, bson.M{"$set": bson.M{
		"status":     entity.DLQStatusProcessing,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		log.Error().Err(err).Str("job_id", dlqJob.JobID).Msg("Failed to update DLQ job status")
		return
	}

	var originalJob queue.Job
	if err := json.Unmarshal(dlqJob.Payload, &originalJob); err != nil {
		log.Error().Err(err).Str("job_id", dlqJob.JobID).Msg("Failed to unmarshal job payload")
		wp.markDLQJob(ctx, collection, dlqJob.ID, bson.M{
			"status":    entity.DLQStatusPermanentlyFailed,
			"error_msg": err.Error(),
		})
		return
	}

	// fresh retry budget for this pass
	originalJob.Retry = 0
	originalJob.ErrorMsg = ""

	if err := HandleJob(ctx, originalJob, wp.handler); err != nil {
		wp.handleDLQRetryFailure(ctx, collection, dlqJob, err.Error())
		return
	}

	wp.markDLQJob(ctx, collection, dlqJob.ID, bson.M{
		"status":       entity.DLQStatusCompleted,
		"completed_at": time.Now().UTC(),
	})

	log.Info().Str("job_id", dlqJob.JobID).Str("type", dlqJob.Type).Int("dlq_retry_count", dlqJob.RetryCount).Msg("DLQ job successfully retried")
}

func (wp *WorkerPool) handleDLQRetryFailure(ctx context.Context, collection *mongo.Collection, dlqJob *entity.DLQJob, errorMsg string) {
	newRetryCount := dlqJob.RetryCount + 1

	if newRetryCount >= wp.DLQConfig.MaxRetryCount {
		wp.markDLQJob(ctx, collection, dlqJob.ID, bson.M{
			"status":    entity.DLQStatusPermanentlyFailed,
			"error_msg": errorMsg,
			"failed_at": time.Now().UTC(),
		})

		log.Error().Str("job_id", dlqJob.JobID).Str("type", dlqJob.Type).Int("dlq_retry_count", newRetryCount).Msg("DLQ job permanently failed after max retries")
		return
	}

	backoffDuration := time.Duration(float64(wp.DLQConfig.RetryInterval) *
		math.Pow(wp.DLQConfig.BackoffFactor, float64(newRetryCount)))
	nextRetryAt := time.Now().UTC().Add(backoffDuration)

	wp.markDLQJob(ctx, collection, dlqJob.ID, bson.M{
		"status":        entity.DLQStatusFailed,
		"retry_count":   newRetryCount,
		"error_msg":     errorMsg,
		"next_retry_at": nextRetryAt,
	})

	log.Warn().
		Str("job_id", dlqJob.JobID).
		Str("type", dlqJob.Type).
		Int("dlq_retry_count", newRetryCount).
		Time("next_retry_at", nextRetryAt).
		Msg("DLQ job scheduled for retry")
}

func (wp *WorkerPool) markDLQJob(ctx context.Context, collection *mongo.Collection, jobID bson.ObjectID, fields bson.M) {
	fields["updated_at"] = time.Now().UTC()
	_, err := collection.UpdateOne(ctx, bson.M{"_id": jobID}, bson.M{"$set": fields})
	if err != nil {
		log.Error().Err(err).Str("job_id", jobID.Hex()).Msg("Failed to update DLQ job")
	}
}
