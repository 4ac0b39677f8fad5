package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

type WebhookRepository interface {
	BaseRepository[models.Webhook]
	List(ctx context.Context) ([]models.Webhook, error)
	ListActive(ctx context.Context) ([]models.Webhook, error)
}

type webhookRepository struct {
	BaseRepository[models.Webhook]
	db *gorm.DB
}

func NewWebhookRepository(db *gorm.DB) WebhookRepository {
	return &webhookRepository{BaseRepository: NewBaseRepository[models.Webhook](db), db: db}
}

func (r *webhookRepository) List(ctx context.Context) ([]models.Webhook, error) {
	var out []models.Webhook
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list webhooks failed")
	}
	return out, nil
}

func (r *webhookRepository) ListActive(ctx context.Context) ([]models.Webhook, error) {
	var out []models.Webhook
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list active webhooks failed")
	}
	return out, nil
}
