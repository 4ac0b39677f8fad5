package models

import (
	"context"
	"time"

	"github.com/collabhub/hub/internal/authz"
)

// AssignmentRole is the capacity in which a user is attached to a task.
type AssignmentRole string

const (
	AssignmentOwner    AssignmentRole = "owner"
	AssignmentAssignee AssignmentRole = "assignee"
	AssignmentReviewer AssignmentRole = "reviewer"
)

// Valid reports whether r is a known assignment role.
func (r AssignmentRole) Valid() bool {
	switch r {
	case AssignmentOwner, AssignmentAssignee, AssignmentReviewer:
		return true
	}
	return false
}

// TaskAssignment links a user to a task in a given role. The
// (task, assignee, role) triple is unique.
type TaskAssignment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	TaskID     uint           `gorm:"not null;uniqueIndex:idx_assignments_task_user_role" json:"task_id"`
	Task       *Task          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AssigneeID uint           `gorm:"not null;uniqueIndex:idx_assignments_task_user_role" json:"assignee_id"`
	Assignee   *User          `gorm:"constraint:OnDelete:CASCADE" json:"assignee,omitempty"`
	Role       AssignmentRole `gorm:"size:20;not null;default:assignee;uniqueIndex:idx_assignments_task_user_role" json:"role"`
	AddedByID  *uint          `json:"added_by,omitempty"`
	AddedBy    *User          `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
}

// OwningProject: an assignment is scoped by its task's project.
func (a *TaskAssignment) OwningProject(ctx context.Context, lookup authz.ScopeLookup) (uint, error) {
	return lookup.TaskProject(ctx, a.TaskID)
}

var _ authz.Resource = (*TaskAssignment)(nil)
