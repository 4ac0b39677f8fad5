package services

import (
	"context"

	"github.com/collabhub/hub/internal/audit"
	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	appErr "github.com/collabhub/hub/pkg/errors"
)

// AuditEventView is an audit event with its weak target reference resolved
// for display.
type AuditEventView struct {
	Event  *models.AuditEvent   `json:"event"`
	Target *audit.TargetSummary `json:"target,omitempty"`
}

// AuditService exposes the audit trail, read-only, to authenticated actors.
type AuditService interface {
	ListEvents(ctx context.Context, actor *authz.Actor, filters *AuditFilters) ([]AuditEventView, error)
	GetEvent(ctx context.Context, actor *authz.Actor, eventID uint) (*AuditEventView, error)
}

type AuditFilters struct {
	Verb  string
	Limit int
}

type auditService struct {
	events   repository.AuditRepository
	resolver *audit.Resolver
}

func NewAuditService(events repository.AuditRepository, resolver *audit.Resolver) AuditService {
	return &auditService{events: events, resolver: resolver}
}

var _ AuditService = (*auditService)(nil)

const defaultAuditLimit = 100

func (s *auditService) ListEvents(ctx context.Context, actor *authz.Actor, filters *AuditFilters) ([]AuditEventView, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	f := repository.AuditFilter{Limit: defaultAuditLimit}
	if filters != nil {
		f.Verb = filters.Verb
		if filters.Limit > 0 {
			f.Limit = filters.Limit
		}
	}
	events, err := s.events.List(ctx, f)
	if err != nil {
		return nil, err
	}
	views := make([]AuditEventView, 0, len(events))
	for i := range events {
		ev := &events[i]
		views = append(views, AuditEventView{
			Event:  ev,
			Target: s.resolver.Resolve(ctx, ev.Target()),
		})
	}
	return views, nil
}

func (s *auditService) GetEvent(ctx context.Context, actor *authz.Actor, eventID uint) (*AuditEventView, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var ev models.AuditEvent
	if err := s.events.GetByID(ctx, eventID, &ev); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("audit event")
		}
		return nil, err
	}
	return &AuditEventView{Event: &ev, Target: s.resolver.Resolve(ctx, ev.Target())}, nil
}
