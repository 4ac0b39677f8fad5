package models

import (
	"context"
	"time"

	"github.com/collabhub/hub/internal/authz"
)

// ProjectMembership grants a user a role within a project. At most one row
// exists per (project, user) pair.
type ProjectMembership struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProjectID   uint       `gorm:"not null;uniqueIndex:idx_memberships_project_user" json:"project_id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_memberships_project_user" json:"user_id"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Role        authz.Role `gorm:"size:20;not null;default:member" json:"role"`
	InvitedByID *uint      `json:"invited_by,omitempty"`
	InvitedBy   *User      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
}

// OwningProject: memberships are managed within the project they grant.
func (m *ProjectMembership) OwningProject(ctx context.Context, _ authz.ScopeLookup) (uint, error) {
	return m.ProjectID, nil
}

var _ authz.Resource = (*ProjectMembership)(nil)
