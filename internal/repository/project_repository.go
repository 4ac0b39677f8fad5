package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

// ProjectFilter narrows project listings. A nil MemberID applies no
// membership filter (superuser view).
type ProjectFilter struct {
	MemberID        *uint
	IncludeArchived bool
}

type ProjectRepository interface {
	BaseRepository[models.Project]
	List(ctx context.Context, f ProjectFilter) ([]models.Project, error)
}

type projectRepository struct {
	BaseRepository[models.Project]
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{BaseRepository: NewBaseRepository[models.Project](db), db: db}
}

// List returns projects ordered by name then id. With a MemberID set it
// joins the membership table, so the result is exactly the set of rows the
// per-object CanView check would accept.
func (r *projectRepository) List(ctx context.Context, f ProjectFilter) ([]models.Project, error) {
	q := r.db.WithContext(ctx).Model(&models.Project{})
	if f.MemberID != nil {
		q = q.Joins("JOIN project_memberships pm ON pm.project_id = projects.id AND pm.user_id = ?", *f.MemberID).
			Distinct()
	}
	if !f.IncludeArchived {
		q = q.Where("projects.is_archived = ?", false)
	}
	var out []models.Project
	if err := q.Order("projects.name, projects.id").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list projects failed")
	}
	return out, nil
}
