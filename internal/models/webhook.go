package models

import (
	"time"

	"gorm.io/datatypes"
)

// Webhook is an externally registered endpoint notified of audit events. An
// empty events list subscribes to every verb.
type Webhook struct {
	ID        uint                         `gorm:"primaryKey" json:"id"`
	Name      string                       `gorm:"size:100;not null" json:"name" validate:"required,max=100"`
	URL       string                       `gorm:"size:500;not null" json:"url" validate:"required,url"`
	Secret    string                       `gorm:"size:128" json:"-"`
	Events    datatypes.JSONSlice[string]  `json:"events"`
	IsActive  bool                         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time                    `json:"created_at"`
	UpdatedAt time.Time                    `json:"updated_at"`
}

// Subscribed reports whether the webhook wants the given verb.
func (w *Webhook) Subscribed(verb string) bool {
	if len(w.Events) == 0 {
		return true
	}
	for _, v := range w.Events {
		if v == verb {
			return true
		}
	}
	return false
}
