package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

// AuditFilter narrows audit event listings.
type AuditFilter struct {
	Verb  string
	Limit int
}

// AuditRepository is append-only: events are created and read, never updated
// or deleted.
type AuditRepository interface {
	Create(ctx context.Context, ev *models.AuditEvent) error
	GetByID(ctx context.Context, id uint, dest *models.AuditEvent) error
	List(ctx context.Context, f AuditFilter) ([]models.AuditEvent, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, ev *models.AuditEvent) error {
	if err := r.db.WithContext(ctx).Create(ev).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "append audit event failed")
	}
	return nil
}

func (r *auditRepository) GetByID(ctx context.Context, id uint, dest *models.AuditEvent) error {
	err := r.db.WithContext(ctx).Preload("Actor").First(dest, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.NotFound("audit event")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get audit event failed")
	}
	return nil
}

// List returns events newest first.
func (r *auditRepository) List(ctx context.Context, f AuditFilter) ([]models.AuditEvent, error) {
	q := r.db.WithContext(ctx).Model(&models.AuditEvent{}).Preload("Actor")
	if f.Verb != "" {
		q = q.Where("verb = ?", f.Verb)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []models.AuditEvent
	if err := q.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list audit events failed")
	}
	return out, nil
}
