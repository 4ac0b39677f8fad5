package audit

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/collabhub/hub/internal/models"
)

// TargetSummary is the resolved form of an audit target reference. Audit
// events hold weak references: deleting the target leaves the event in
// place, and resolution reports the target as unavailable instead of
// failing.
type TargetSummary struct {
	Kind      models.TargetKind `json:"kind"`
	ID        uint              `json:"id"`
	Label     string            `json:"label"`
	Available bool              `json:"available"`
}

// Resolver looks up audit targets for display.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve maps a target reference to a display summary. A nil reference
// yields nil; a dangling reference yields an unavailable summary.
func (r *Resolver) Resolve(ctx context.Context, ref *models.TargetRef) *TargetSummary {
	if ref == nil {
		return nil
	}
	s := &TargetSummary{Kind: ref.Kind, ID: ref.ID}
	var label string
	var err error
	switch ref.Kind {
	case models.TargetProject:
		var p models.Project
		err = r.db.WithContext(ctx).Select("name").First(&p, "id = ?", ref.ID).Error
		label = p.Name
	case models.TargetTask:
		var t models.Task
		err = r.db.WithContext(ctx).Select("title").First(&t, "id = ?", ref.ID).Error
		label = t.Title
	case models.TargetThread:
		var t models.Thread
		err = r.db.WithContext(ctx).Select("title").First(&t, "id = ?", ref.ID).Error
		label = t.Title
	case models.TargetMessage:
		var m models.Message
		err = r.db.WithContext(ctx).Select("author_label").First(&m, "id = ?", ref.ID).Error
		label = m.AuthorLabel
	case models.TargetTag:
		var t models.Tag
		err = r.db.WithContext(ctx).Select("name").First(&t, "id = ?", ref.ID).Error
		label = t.Name
	case models.TargetMembership:
		var m models.ProjectMembership
		err = r.db.WithContext(ctx).Select("role").First(&m, "id = ?", ref.ID).Error
		label = string(m.Role)
	case models.TargetAssignment:
		var a models.TaskAssignment
		err = r.db.WithContext(ctx).Select("role").First(&a, "id = ?", ref.ID).Error
		label = string(a.Role)
	case models.TargetWebhook:
		var w models.Webhook
		err = r.db.WithContext(ctx).Select("name").First(&w, "id = ?", ref.ID).Error
		label = w.Name
	default:
		// Unknown kind: treat like a dangling reference.
		err = gorm.ErrRecordNotFound
	}
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			// Lookup failures degrade to unavailable as well; audit
			// display must never error on a weak reference.
			s.Label = "unavailable"
			return s
		}
		s.Label = "unavailable"
		return s
	}
	s.Label = label
	s.Available = true
	return s
}
