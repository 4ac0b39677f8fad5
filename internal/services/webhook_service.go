package services

import (
	"context"
	"net/url"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	appErr "github.com/collabhub/hub/pkg/errors"
	"github.com/collabhub/hub/pkg/logger"
)

// WebhookService manages registered webhook endpoints. All operations are
// superuser-only: webhook secrets and delivery targets are deployment-level
// configuration, not project data.
type WebhookService interface {
	CreateWebhook(ctx context.Context, actor *authz.Actor, input *CreateWebhookInput) (*models.Webhook, error)
	GetWebhook(ctx context.Context, actor *authz.Actor, webhookID uint) (*models.Webhook, error)
	ListWebhooks(ctx context.Context, actor *authz.Actor) ([]models.Webhook, error)
	UpdateWebhook(ctx context.Context, actor *authz.Actor, webhookID uint, patch *UpdateWebhookInput) (*models.Webhook, error)
	DeleteWebhook(ctx context.Context, actor *authz.Actor, webhookID uint) error
}

type CreateWebhookInput struct {
	Name     string
	URL      string
	Secret   string
	Events   []string
	IsActive *bool
}

type UpdateWebhookInput struct {
	Name     *string
	URL      *string
	Secret   *string
	Events   []string
	IsActive *bool
}

type webhookService struct {
	webhooks repository.WebhookRepository
}

func NewWebhookService(webhooks repository.WebhookRepository) WebhookService {
	return &webhookService{webhooks: webhooks}
}

var _ WebhookService = (*webhookService)(nil)

func validateWebhookURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return appErr.Invalid("url", "url must be an absolute http(s) URL")
	}
	return nil
}

func (s *webhookService) CreateWebhook(ctx context.Context, actor *authz.Actor, input *CreateWebhookInput) (*models.Webhook, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, appErr.Invalid("name", "name is required")
	}
	if err := validateWebhookURL(input.URL); err != nil {
		return nil, err
	}

	w := &models.Webhook{
		Name:     input.Name,
		URL:      input.URL,
		Secret:   input.Secret,
		Events:   datatypes.NewJSONSlice(input.Events),
		IsActive: true,
	}
	if input.IsActive != nil {
		w.IsActive = *input.IsActive
	}
	if err := s.webhooks.Create(ctx, w); err != nil {
		return nil, err
	}
	logger.L().Info("webhook registered", zap.Uint("webhook_id", w.ID), zap.String("url", w.URL))
	return w, nil
}

func (s *webhookService) GetWebhook(ctx context.Context, actor *authz.Actor, webhookID uint) (*models.Webhook, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	var w models.Webhook
	if err := s.webhooks.GetByID(ctx, webhookID, &w); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("webhook")
		}
		return nil, err
	}
	return &w, nil
}

func (s *webhookService) ListWebhooks(ctx context.Context, actor *authz.Actor) ([]models.Webhook, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	return s.webhooks.List(ctx)
}

func (s *webhookService) UpdateWebhook(ctx context.Context, actor *authz.Actor, webhookID uint, patch *UpdateWebhookInput) (*models.Webhook, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	var w models.Webhook
	if err := s.webhooks.GetByID(ctx, webhookID, &w); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("webhook")
		}
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, appErr.Invalid("name", "name is required")
		}
		w.Name = *patch.Name
	}
	if patch.URL != nil {
		if err := validateWebhookURL(*patch.URL); err != nil {
			return nil, err
		}
		w.URL = *patch.URL
	}
	if patch.Secret != nil {
		w.Secret = *patch.Secret
	}
	if patch.Events != nil {
		w.Events = datatypes.NewJSONSlice(patch.Events)
	}
	if patch.IsActive != nil {
		w.IsActive = *patch.IsActive
	}

	if err := s.webhooks.Update(ctx, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *webhookService) DeleteWebhook(ctx context.Context, actor *authz.Actor, webhookID uint) error {
	if err := requireSuperuser(actor); err != nil {
		return err
	}
	if err := s.webhooks.Delete(ctx, webhookID); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.NotFound("webhook")
		}
		return err
	}
	logger.L().Info("webhook removed", zap.Uint("webhook_id", webhookID))
	return nil
}
