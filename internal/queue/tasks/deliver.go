package tasks

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	"github.com/collabhub/hub/internal/webhooks"
	"github.com/collabhub/hub/pkg/logger"
)

// DeliverTaskHandler consumes webhook:deliver tasks and performs the actual
// delivery. Failures are logged and swallowed; the task is never retried, so
// offloaded delivery keeps the same at-most-once semantics as inline
// dispatch.
type DeliverTaskHandler struct {
	events    repository.AuditRepository
	deliverer *webhooks.Deliverer
}

func NewDeliverTaskHandler(events repository.AuditRepository, deliverer *webhooks.Deliverer) *DeliverTaskHandler {
	return &DeliverTaskHandler{events: events, deliverer: deliverer}
}

func (h *DeliverTaskHandler) HandleDeliver(ctx context.Context, t *asynq.Task) error {
	var p webhooks.DeliverPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid webhook delivery payload", zap.Error(err))
		return nil
	}
	var ev models.AuditEvent
	if err := h.events.GetByID(ctx, p.EventID, &ev); err != nil {
		logger.L().Warn("audit event gone before delivery", zap.Uint("event_id", p.EventID), zap.Error(err))
		return nil
	}
	h.deliverer.Dispatch(ctx, &ev)
	return nil
}
