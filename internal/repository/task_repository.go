package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

// TaskFilter narrows task listings. A nil MemberID applies no membership
// filter (superuser view).
type TaskFilter struct {
	MemberID  *uint
	ProjectID *uint
	ParentID  *uint
	Status    models.TaskStatus
}

type TaskRepository interface {
	BaseRepository[models.Task]
	GetWithTags(ctx context.Context, id uint, dest *models.Task) error
	List(ctx context.Context, f TaskFilter) ([]models.Task, error)
	ReplaceTags(ctx context.Context, task *models.Task, tags []models.Tag) error
}

type taskRepository struct {
	BaseRepository[models.Task]
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{BaseRepository: NewBaseRepository[models.Task](db), db: db}
}

func (r *taskRepository) GetWithTags(ctx context.Context, id uint, dest *models.Task) error {
	err := r.db.WithContext(ctx).Preload("Tags").First(dest, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.NotFound("task")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get task failed")
	}
	return nil
}

func (r *taskRepository) List(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	q := r.db.WithContext(ctx).Model(&models.Task{}).Preload("Tags")
	if f.MemberID != nil {
		q = q.Joins("JOIN project_memberships pm ON pm.project_id = tasks.project_id AND pm.user_id = ?", *f.MemberID).
			Distinct()
	}
	if f.ProjectID != nil {
		q = q.Where("tasks.project_id = ?", *f.ProjectID)
	}
	if f.ParentID != nil {
		q = q.Where("tasks.parent_id = ?", *f.ParentID)
	}
	if f.Status != "" {
		q = q.Where("tasks.status = ?", f.Status)
	}
	var out []models.Task
	if err := q.Order("tasks.project_id, tasks.parent_id, tasks.position, tasks.id").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list tasks failed")
	}
	return out, nil
}

func (r *taskRepository) ReplaceTags(ctx context.Context, task *models.Task, tags []models.Tag) error {
	if err := r.db.WithContext(ctx).Model(task).Association("Tags").Replace(tags); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "replace task tags failed")
	}
	return nil
}
