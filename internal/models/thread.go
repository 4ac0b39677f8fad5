package models

import (
	"context"
	"time"

	"github.com/collabhub/hub/internal/authz"
)

// ThreadKind categorizes a conversation thread.
type ThreadKind string

const (
	ThreadGeneral  ThreadKind = "general"
	ThreadPlanning ThreadKind = "planning"
	ThreadUpdate   ThreadKind = "update"
)

// Valid reports whether k is a known thread kind.
func (k ThreadKind) Valid() bool {
	switch k {
	case ThreadGeneral, ThreadPlanning, ThreadUpdate:
		return true
	}
	return false
}

// Thread attaches to exactly one of a project or a task, never both and
// never neither. The service layer validates this before any write and the
// table carries matching check constraints.
type Thread struct {
	ID          uint       `gorm:"primaryKey;check:thread_requires_scope,project_id IS NOT NULL OR task_id IS NOT NULL;check:thread_single_scope,project_id IS NULL OR task_id IS NULL" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Kind        ThreadKind `gorm:"size:20;not null;default:general" json:"kind"`
	ProjectID   *uint      `gorm:"index" json:"project_id,omitempty"`
	TaskID      *uint      `gorm:"index" json:"task_id,omitempty"`
	Task        *Task      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedByID *uint      `json:"created_by,omitempty"`
	CreatedBy   *User      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Messages []Message `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// OwningProject resolves the thread's scoping project: its own project, or
// its task's project. A thread with neither is a data integrity violation
// and resolves to an error so access checks fail.
func (t *Thread) OwningProject(ctx context.Context, lookup authz.ScopeLookup) (uint, error) {
	if t.ProjectID != nil {
		return *t.ProjectID, nil
	}
	if t.TaskID != nil {
		return lookup.TaskProject(ctx, *t.TaskID)
	}
	return 0, authz.ErrUnscoped
}

var _ authz.Resource = (*Thread)(nil)
