package models

import (
	"time"

	gslug "github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Tag is a global label, not scoped to any project. Name and slug are both
// unique; the slug is derived from the name when not supplied.
type Tag struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:60;not null" json:"name" validate:"required,max=60"`
	Slug        string    `gorm:"uniqueIndex;size:70;not null" json:"slug"`
	Color       string    `gorm:"size:12" json:"color"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeSave derives the slug from the name when absent.
func (t *Tag) BeforeSave(tx *gorm.DB) error {
	if t.Slug == "" {
		t.Slug = gslug.Make(t.Name)
	}
	return nil
}
