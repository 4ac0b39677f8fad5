package models

import (
	"context"
	"time"

	"github.com/collabhub/hub/internal/authz"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	StatusBacklog    TaskStatus = "backlog"
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusDone       TaskStatus = "done"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusBlocked, StatusDone:
		return true
	}
	return false
}

// Task priorities run 1 (low) through 4 (urgent).
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
	PriorityUrgent = 4
)

// Task belongs to exactly one project. An optional parent task must live in
// the same project and must not be the task itself; both rules are enforced
// on every create and update.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProjectID   uint       `gorm:"not null;index" json:"project_id"`
	ParentID    *uint      `gorm:"index" json:"parent_id,omitempty"`
	Parent      *Task      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title       string     `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Description string     `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"size:20;not null;default:backlog" json:"status"`
	Priority    int        `gorm:"not null;default:2" json:"priority" validate:"gte=1,lte=4"`
	Position    uint       `gorm:"not null;default:0" json:"position"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Tags        []Tag      `gorm:"many2many:task_tags" json:"tags,omitempty"`
	CreatedByID *uint      `json:"created_by,omitempty"`
	CreatedBy   *User      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OwningProject: a task is scoped by its project.
func (t *Task) OwningProject(ctx context.Context, _ authz.ScopeLookup) (uint, error) {
	return t.ProjectID, nil
}

var _ authz.Resource = (*Task)(nil)
