package models

import (
	"context"
	"time"

	"github.com/collabhub/hub/internal/authz"
)

// Project is the root of access scoping: every scoped entity resolves to
// exactly one project, and memberships on that project decide access.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name" validate:"required,max=200"`
	Description string    `gorm:"type:text" json:"description"`
	IsArchived  bool      `gorm:"not null;default:false" json:"is_archived"`
	CreatedByID *uint     `json:"created_by,omitempty"`
	CreatedBy   *User     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Memberships []ProjectMembership `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Tasks       []Task              `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Threads     []Thread            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// OwningProject: a project is its own scope.
func (p *Project) OwningProject(ctx context.Context, _ authz.ScopeLookup) (uint, error) {
	return p.ID, nil
}

var _ authz.Resource = (*Project)(nil)
