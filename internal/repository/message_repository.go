package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

// MessageFilter narrows message listings.
type MessageFilter struct {
	MemberID *uint
	ThreadID *uint
}

type MessageRepository interface {
	BaseRepository[models.Message]
	List(ctx context.Context, f MessageFilter) ([]models.Message, error)
}

type messageRepository struct {
	BaseRepository[models.Message]
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{BaseRepository: NewBaseRepository[models.Message](db), db: db}
}

// List filters through the message's thread to its scoping project, keeping
// the listed set identical to what per-row CanView would allow.
func (r *messageRepository) List(ctx context.Context, f MessageFilter) ([]models.Message, error) {
	q := r.db.WithContext(ctx).Model(&models.Message{})
	if f.MemberID != nil {
		q = q.Joins("JOIN threads scope_thread ON scope_thread.id = messages.thread_id").
			Joins("LEFT JOIN tasks scope_task ON scope_task.id = scope_thread.task_id").
			Joins("JOIN project_memberships pm ON pm.project_id = COALESCE(scope_thread.project_id, scope_task.project_id) AND pm.user_id = ?", *f.MemberID).
			Distinct("messages.*")
	}
	if f.ThreadID != nil {
		q = q.Where("messages.thread_id = ?", *f.ThreadID)
	}
	var out []models.Message
	if err := q.Order("messages.created_at, messages.id").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list messages failed")
	}
	return out, nil
}
