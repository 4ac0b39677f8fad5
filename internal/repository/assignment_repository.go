package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

type AssignmentRepository interface {
	BaseRepository[models.TaskAssignment]
	ListByTask(ctx context.Context, taskID uint) ([]models.TaskAssignment, error)
}

type assignmentRepository struct {
	BaseRepository[models.TaskAssignment]
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{BaseRepository: NewBaseRepository[models.TaskAssignment](db), db: db}
}

// Create inserts an assignment. A duplicate (task, assignee, role) triple is
// a domain error, not a raw constraint failure.
func (r *assignmentRepository) Create(ctx context.Context, a *models.TaskAssignment) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TaskAssignment{}).
		Where("task_id = ? AND assignee_id = ? AND role = ?", a.TaskID, a.AssigneeID, a.Role).
		Count(&count).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "check assignment failed")
	}
	if count > 0 {
		return appErr.Duplicate("assignment")
	}
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return appErr.Duplicate("assignment")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "create assignment failed")
	}
	return nil
}

func (r *assignmentRepository) ListByTask(ctx context.Context, taskID uint) ([]models.TaskAssignment, error) {
	var out []models.TaskAssignment
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Where("task_id = ?", taskID).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list assignments failed")
	}
	return out, nil
}
