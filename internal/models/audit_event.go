package models

import (
	"time"

	"gorm.io/datatypes"
)

// TargetKind names the entity kind an audit event points at. The zero value
// means the event has no target.
type TargetKind string

const (
	TargetProject    TargetKind = "project"
	TargetMembership TargetKind = "projectmembership"
	TargetTask       TargetKind = "task"
	TargetAssignment TargetKind = "taskassignment"
	TargetThread     TargetKind = "thread"
	TargetMessage    TargetKind = "message"
	TargetTag        TargetKind = "tag"
	TargetWebhook    TargetKind = "webhook"
)

// TargetRef is a weak reference to an audited entity. Deleting the entity
// leaves the reference dangling; resolution then yields "unavailable", never
// an error.
type TargetRef struct {
	Kind TargetKind
	ID   uint
}

// AuditEvent is an immutable record of a state-changing action. Events are
// appended, never updated or deleted, and listed newest first.
type AuditEvent struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    *uint             `gorm:"index" json:"actor_id,omitempty"`
	Actor      *User             `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Verb       string            `gorm:"size:80;not null;index" json:"verb"`
	TargetKind TargetKind        `gorm:"size:40" json:"target_kind,omitempty"`
	TargetID   *uint             `json:"target_id,omitempty"`
	Metadata   datatypes.JSONMap `json:"metadata"`
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`
}

// Target returns the event's weak target reference, or nil when the event
// has none.
func (e *AuditEvent) Target() *TargetRef {
	if e.TargetKind == "" || e.TargetID == nil {
		return nil
	}
	return &TargetRef{Kind: e.TargetKind, ID: *e.TargetID}
}
