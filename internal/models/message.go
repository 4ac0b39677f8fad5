package models

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/collabhub/hub/internal/authz"
)

// AuthorRole identifies what kind of author wrote a message.
type AuthorRole string

const (
	AuthorHuman  AuthorRole = "human"
	AuthorAgent  AuthorRole = "agent"
	AuthorSystem AuthorRole = "system"
)

// Valid reports whether r is a known author role.
func (r AuthorRole) Valid() bool {
	switch r {
	case AuthorHuman, AuthorAgent, AuthorSystem:
		return true
	}
	return false
}

// Message belongs to exactly one thread; messages are append-ordered by
// creation time then id.
type Message struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	ThreadID    uint              `gorm:"not null;index" json:"thread_id"`
	AuthorRole  AuthorRole        `gorm:"size:20;not null;default:human" json:"author_role"`
	AuthorLabel string            `gorm:"size:100" json:"author_label"`
	Body        string            `gorm:"type:text;not null" json:"body" validate:"required"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	CreatedByID *uint             `json:"created_by,omitempty"`
	CreatedBy   *User             `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt   time.Time         `json:"created_at"`
}

// OwningProject: a message is scoped by its thread's resolved project.
func (m *Message) OwningProject(ctx context.Context, lookup authz.ScopeLookup) (uint, error) {
	return lookup.ThreadProject(ctx, m.ThreadID)
}

var _ authz.Resource = (*Message)(nil)
