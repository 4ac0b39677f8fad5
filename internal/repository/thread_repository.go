package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

// ThreadFilter narrows thread listings.
type ThreadFilter struct {
	MemberID  *uint
	ProjectID *uint
	TaskID    *uint
}

type ThreadRepository interface {
	BaseRepository[models.Thread]
	List(ctx context.Context, f ThreadFilter) ([]models.Thread, error)
}

type threadRepository struct {
	BaseRepository[models.Thread]
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{BaseRepository: NewBaseRepository[models.Thread](db), db: db}
}

// List filters by the thread's scoping project: its own project or its
// task's project, whichever is set.
func (r *threadRepository) List(ctx context.Context, f ThreadFilter) ([]models.Thread, error) {
	q := r.db.WithContext(ctx).Model(&models.Thread{}).
		Joins("LEFT JOIN tasks scope_task ON scope_task.id = threads.task_id")
	if f.MemberID != nil {
		q = q.Joins("JOIN project_memberships pm ON pm.project_id = COALESCE(threads.project_id, scope_task.project_id) AND pm.user_id = ?", *f.MemberID).
			Distinct("threads.*")
	}
	if f.ProjectID != nil {
		q = q.Where("threads.project_id = ?", *f.ProjectID)
	}
	if f.TaskID != nil {
		q = q.Where("threads.task_id = ?", *f.TaskID)
	}
	var out []models.Thread
	if err := q.Order("threads.updated_at DESC, threads.id DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list threads failed")
	}
	return out, nil
}
