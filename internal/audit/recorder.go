package audit

import (
	"context"

	"gorm.io/datatypes"

	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	"github.com/collabhub/hub/internal/webhooks"
)

// Recorder appends audit events and triggers webhook dispatch for each one.
//
// Record runs after the caller's primary transaction has committed: an audit
// write failure propagates to the caller but does not roll the primary write
// back. Audit durability is best-effort relative to the primary write; that
// trade-off is deliberate.
type Recorder struct {
	events     repository.AuditRepository
	dispatcher webhooks.Dispatcher
}

func NewRecorder(events repository.AuditRepository, dispatcher webhooks.Dispatcher) *Recorder {
	return &Recorder{events: events, dispatcher: dispatcher}
}

// Record appends one event and dispatches it. The actor may be nil for
// system or unauthenticated actions; target may be nil for events with no
// subject entity. The audit row exists before any delivery attempt.
func (r *Recorder) Record(ctx context.Context, actor *authz.Actor, verb string, target *models.TargetRef, metadata map[string]any) (*models.AuditEvent, error) {
	ev := &models.AuditEvent{
		Verb:     verb,
		Metadata: datatypes.JSONMap(metadata),
	}
	if actor != nil {
		id := actor.ID
		ev.ActorID = &id
	}
	if target != nil {
		ev.TargetKind = target.Kind
		id := target.ID
		ev.TargetID = &id
	}
	if err := r.events.Create(ctx, ev); err != nil {
		return nil, err
	}
	// Attach an in-memory actor snapshot so the sync dispatcher can build
	// the payload without another lookup. The row itself only stores the id.
	if actor != nil {
		ev.Actor = &models.User{
			ID:       actor.ID,
			Username: actor.Username,
			Email:    actor.Email,
		}
	}
	r.dispatcher.Dispatch(ctx, ev)
	return ev, nil
}
