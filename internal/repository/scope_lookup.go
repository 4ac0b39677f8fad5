package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

// scopeLookup resolves owning projects for entities that reach their project
// through a parent row.
type scopeLookup struct {
	db *gorm.DB
}

// NewScopeLookup returns the database-backed authz.ScopeLookup.
func NewScopeLookup(db *gorm.DB) authz.ScopeLookup {
	return &scopeLookup{db: db}
}

func (l *scopeLookup) TaskProject(ctx context.Context, taskID uint) (uint, error) {
	var t models.Task
	err := l.db.WithContext(ctx).Select("project_id").First(&t, "id = ?", taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, authz.ErrUnscoped
		}
		return 0, appErr.Wrap(err, appErr.CodeInternal, "resolve task project failed")
	}
	return t.ProjectID, nil
}

func (l *scopeLookup) ThreadProject(ctx context.Context, threadID uint) (uint, error) {
	var th models.Thread
	err := l.db.WithContext(ctx).Select("id", "project_id", "task_id").First(&th, "id = ?", threadID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, authz.ErrUnscoped
		}
		return 0, appErr.Wrap(err, appErr.CodeInternal, "resolve thread project failed")
	}
	return th.OwningProject(ctx, l)
}
