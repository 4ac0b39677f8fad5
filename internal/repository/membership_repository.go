package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

// MembershipRepository is the membership store: it answers the role queries
// the authorization engine runs and manages membership rows.
type MembershipRepository interface {
	authz.MembershipStore
	BaseRepository[models.ProjectMembership]
	Find(ctx context.Context, projectID, userID uint, dest *models.ProjectMembership) error
	ListByProject(ctx context.Context, projectID uint) ([]models.ProjectMembership, error)
}

type membershipRepository struct {
	BaseRepository[models.ProjectMembership]
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{BaseRepository: NewBaseRepository[models.ProjectMembership](db), db: db}
}

// Create inserts a membership row. A second row for the same (project, user)
// pair is a domain error, not a raw constraint failure.
func (r *membershipRepository) Create(ctx context.Context, m *models.ProjectMembership) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProjectMembership{}).
		Where("project_id = ? AND user_id = ?", m.ProjectID, m.UserID).
		Count(&count).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "check membership failed")
	}
	if count > 0 {
		return appErr.Duplicate("membership")
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return appErr.Duplicate("membership")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "create membership failed")
	}
	return nil
}

func (r *membershipRepository) Find(ctx context.Context, projectID, userID uint, dest *models.ProjectMembership) error {
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.NotFound("membership")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get membership failed")
	}
	return nil
}

func (r *membershipRepository) ListByProject(ctx context.Context, projectID uint) ([]models.ProjectMembership, error) {
	var out []models.ProjectMembership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("role, id").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list memberships failed")
	}
	return out, nil
}

// GetRole implements authz.MembershipStore.
func (r *membershipRepository) GetRole(ctx context.Context, projectID, userID uint) (authz.Role, bool, error) {
	var m models.ProjectMembership
	err := r.db.WithContext(ctx).
		Select("role").
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, appErr.Wrap(err, appErr.CodeInternal, "get role failed")
	}
	return m.Role, true, nil
}

// ProjectIDs implements authz.MembershipStore.
func (r *membershipRepository) ProjectIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.ProjectMembership{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("project_id", &ids).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list member projects failed")
	}
	return ids, nil
}
