package models

import (
	"time"
)

// ProfileKind distinguishes human accounts from agent accounts.
type ProfileKind string

const (
	ProfileHuman ProfileKind = "human"
	ProfileAgent ProfileKind = "agent"
)

// User represents a platform account.
type User struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Username     string       `gorm:"uniqueIndex;size:150;not null" json:"username" validate:"required"`
	Email        string       `gorm:"uniqueIndex;size:254;not null" json:"email" validate:"required,email"`
	PasswordHash string       `gorm:"not null" json:"-"`
	IsSuperuser  bool         `gorm:"not null;default:false" json:"is_superuser"`
	Profile      *UserProfile `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// UserProfile carries display metadata for a user. Agent profiles drive the
// default author_role on messages.
type UserProfile struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"uniqueIndex;not null" json:"user_id"`
	Kind        ProfileKind `gorm:"size:16;not null;default:human" json:"kind"`
	DisplayName string      `gorm:"size:100" json:"display_name"`
	Notes       string      `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time   `json:"created_at"`
}
