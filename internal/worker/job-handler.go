package worker

import (
	"context"
	"fmt"

	"github.com/kshathishka/collabstudy/internal/queue"
	worker_handler "github.com/kshathishka/collabstudy/internal/worker/worker-handler"
)

func HandleJob(ctx context.Context, job queue.Job, handler *worker_handler.WorkerHandler) error {
	switch job.Type {
	case queue.JobNotifyMessageSent:
		return handler.HandleMessageSent(ctx, job.Payload)
	case queue.JobNotifyNoteShared:
		return handler.HandleNoteShared(ctx, job.Payload)
	case queue.JobNotifyRoomInvitation:
		return handler.HandleRoomInvitation(ctx, job.Payload)
	case queue.JobNotifySessionLifecycle:
		return handler.HandleSessionLifecycle(ctx, job.Payload)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}
