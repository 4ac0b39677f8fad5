package services

import (
	"context"
	"errors"

	"github.com/collabhub/hub/internal/authz"
	appErr "github.com/collabhub/hub/pkg/errors"
)

// authorize runs the two-step access check every service operation uses:
// visibility first, threshold second. Invisible resources surface as
// not_found so existence is never leaked; forbidden is only returned once
// visibility is confirmed.
func authorize(ctx context.Context, eng *authz.Engine, actor *authz.Actor, res authz.Resource, min authz.Role, entity string) error {
	if actor == nil {
		return appErr.Unauthenticated()
	}
	visible, err := eng.CanView(ctx, actor, res)
	if err != nil {
		if errors.Is(err, authz.ErrUnscoped) {
			return appErr.NotFound(entity)
		}
		return err
	}
	if !visible {
		return appErr.NotFound(entity)
	}
	if min == authz.RoleViewer {
		return nil
	}
	ok, err := eng.Can(ctx, actor, min, res)
	if err != nil {
		return err
	}
	if !ok {
		return appErr.Forbidden()
	}
	return nil
}

// requireActor rejects anonymous callers.
func requireActor(actor *authz.Actor) error {
	if actor == nil {
		return appErr.Unauthenticated()
	}
	return nil
}

// requireSuperuser gates operations reserved for the superuser.
func requireSuperuser(actor *authz.Actor) error {
	if actor == nil {
		return appErr.Unauthenticated()
	}
	if !actor.IsSuperuser {
		return appErr.Forbidden()
	}
	return nil
}

// actorID returns a pointer to the actor's id, or nil for anonymous actors.
func actorID(actor *authz.Actor) *uint {
	if actor == nil {
		return nil
	}
	id := actor.ID
	return &id
}

// memberFilter converts the actor into the repository listing filter: nil
// means no membership filter (superuser), otherwise listings join against
// the actor's memberships. Callers reject anonymous actors before listing.
func memberFilter(actor *authz.Actor) *uint {
	if actor.IsSuperuser {
		return nil
	}
	id := actor.ID
	return &id
}
