package webhooks

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	"github.com/collabhub/hub/pkg/logger"
)

// Dispatcher fans an audit event out to registered endpoints. Dispatch never
// returns an error: webhook delivery is fire-and-forget, at-most-once, and
// must never fail the mutating request that produced the event.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev *models.AuditEvent)
}

// Deliverer is the synchronous dispatcher: it signs and POSTs the event to
// every matching active webhook inline, swallowing delivery failures.
type Deliverer struct {
	webhooks repository.WebhookRepository
	client   *http.Client
}

func NewDeliverer(webhooks repository.WebhookRepository, timeout time.Duration) *Deliverer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Deliverer{
		webhooks: webhooks,
		client:   &http.Client{Timeout: timeout},
	}
}

var _ Dispatcher = (*Deliverer)(nil)

// Dispatch loads all active webhooks and delivers the event to each one
// whose verb filter matches.
func (d *Deliverer) Dispatch(ctx context.Context, ev *models.AuditEvent) {
	hooks, err := d.webhooks.ListActive(ctx)
	if err != nil {
		logger.L().Warn("load webhooks failed", zap.Error(err))
		return
	}
	if len(hooks) == 0 {
		return
	}
	body, err := BuildPayload(ev)
	if err != nil {
		logger.L().Warn("build webhook payload failed", zap.Uint("event_id", ev.ID), zap.Error(err))
		return
	}
	for i := range hooks {
		if !hooks[i].Subscribed(ev.Verb) {
			continue
		}
		d.deliver(ctx, &hooks[i], body)
	}
}

func (d *Deliverer) deliver(ctx context.Context, wh *models.Webhook, body []byte) {
	started := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wh.URL, bytes.NewReader(body))
	if err != nil {
		logger.L().Warn("webhook request build failed", zap.String("url", wh.URL), zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if wh.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(wh.Secret, body))
	}
	resp, err := d.client.Do(req)
	if err != nil {
		logger.L().Warn("webhook delivery failed", zap.String("url", wh.URL), zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.L().Warn("webhook delivery rejected",
			zap.String("url", wh.URL),
			zap.Int("status", resp.StatusCode),
		)
		return
	}
	logger.L().Debug("webhook delivered",
		zap.String("url", wh.URL),
		zap.Duration("duration", time.Since(started)),
	)
}
