package webhooks

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/pkg/logger"
)

// TaskTypeDeliver is the asynq task type for offloaded webhook delivery.
const TaskTypeDeliver = "webhook:deliver"

// DeliverPayload is the task payload for offloaded delivery. The worker
// reloads the event by id so it always delivers the persisted row.
type DeliverPayload struct {
	EventID uint `json:"event_id"`
}

// Enqueuer is the asynchronous dispatcher: it hands the event id to the
// worker queue and returns immediately. Tasks carry MaxRetry(0) so delivery
// stays at-most-once; ordering across webhooks is not guaranteed in this
// mode. Enqueue failures are logged and swallowed like any other delivery
// failure.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

var _ Dispatcher = (*Enqueuer)(nil)

func (e *Enqueuer) Dispatch(ctx context.Context, ev *models.AuditEvent) {
	payload, err := json.Marshal(DeliverPayload{EventID: ev.ID})
	if err != nil {
		logger.L().Warn("marshal webhook task failed", zap.Uint("event_id", ev.ID), zap.Error(err))
		return
	}
	task := asynq.NewTask(TaskTypeDeliver, payload)
	if _, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(0), asynq.Queue("webhooks")); err != nil {
		logger.L().Warn("enqueue webhook delivery failed", zap.Uint("event_id", ev.ID), zap.Error(err))
	}
}
