package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

type TagRepository interface {
	BaseRepository[models.Tag]
	List(ctx context.Context) ([]models.Tag, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
	NameOrSlugTaken(ctx context.Context, name, slug string, excludeID uint) (bool, error)
}

type tagRepository struct {
	BaseRepository[models.Tag]
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{BaseRepository: NewBaseRepository[models.Tag](db), db: db}
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var out []models.Tag
	if err := r.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list tags failed")
	}
	return out, nil
}

func (r *tagRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	var out []models.Tag
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get tags failed")
	}
	return out, nil
}

// NameOrSlugTaken reports whether another tag already holds the name or
// slug. excludeID skips the tag being updated.
func (r *tagRepository) NameOrSlugTaken(ctx context.Context, name, slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Tag{}).
		Where("(name = ? OR slug = ?) AND id <> ?", name, slug, excludeID).
		Count(&count).Error
	if err != nil {
		return false, appErr.Wrap(err, appErr.CodeInternal, "check tag uniqueness failed")
	}
	return count > 0, nil
}
