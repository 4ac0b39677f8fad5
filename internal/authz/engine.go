package authz

import (
	"context"
	"errors"
)

// ErrUnscoped is returned when a resource's owning project cannot be
// resolved (e.g. a thread attached to neither a project nor a task). Access
// checks against such a resource always fail.
var ErrUnscoped = errors.New("resource has no owning project")

// MembershipStore answers role queries against the project membership table.
type MembershipStore interface {
	// GetRole returns the user's role in the project, and whether any
	// membership exists.
	GetRole(ctx context.Context, projectID, userID uint) (Role, bool, error)
	// ProjectIDs returns the ids of all projects where the user holds any
	// membership.
	ProjectIDs(ctx context.Context, userID uint) ([]uint, error)
}

// ScopeLookup loads the parent rows needed to resolve a resource's owning
// project.
type ScopeLookup interface {
	TaskProject(ctx context.Context, taskID uint) (uint, error)
	ThreadProject(ctx context.Context, threadID uint) (uint, error)
}

// Resource is anything access-controlled through a project. Each entity kind
// resolves its own scoping project: a project is its own scope, a task
// resolves through its project, a thread through its project or its task's
// project, a message through its thread.
type Resource interface {
	OwningProject(ctx context.Context, lookup ScopeLookup) (uint, error)
}

// Engine computes access decisions from an actor, an action threshold, and a
// resource's owning project.
type Engine struct {
	members MembershipStore
	scopes  ScopeLookup
}

func NewEngine(members MembershipStore, scopes ScopeLookup) *Engine {
	return &Engine{members: members, scopes: scopes}
}

// RoleFor returns the actor's effective role in the project. Superusers are
// implicit owners everywhere; anonymous actors have no role anywhere.
func (e *Engine) RoleFor(ctx context.Context, actor *Actor, projectID uint) (Role, bool, error) {
	if actor == nil {
		return "", false, nil
	}
	if actor.IsSuperuser {
		return RoleOwner, true, nil
	}
	return e.members.GetRole(ctx, projectID, actor.ID)
}

// Can reports whether the actor holds at least min role in the resource's
// owning project. Superusers pass every check; anonymous actors pass none.
func (e *Engine) Can(ctx context.Context, actor *Actor, min Role, res Resource) (bool, error) {
	if actor == nil {
		return false, nil
	}
	if actor.IsSuperuser {
		return true, nil
	}
	projectID, err := res.OwningProject(ctx, e.scopes)
	if err != nil {
		// Unresolvable scope is a data integrity problem; deny rather
		// than grant, and surface the cause to the caller.
		return false, err
	}
	role, ok, err := e.members.GetRole(ctx, projectID, actor.ID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return role.AtLeast(min), nil
}

// CanView requires any membership in the owning project.
func (e *Engine) CanView(ctx context.Context, actor *Actor, res Resource) (bool, error) {
	return e.Can(ctx, actor, RoleViewer, res)
}

// CanEdit requires MEMBER or above: creating and updating the project itself
// or its child resources.
func (e *Engine) CanEdit(ctx context.Context, actor *Actor, res Resource) (bool, error) {
	return e.Can(ctx, actor, RoleMember, res)
}

// CanAdmin requires ADMIN or above: managing memberships.
func (e *Engine) CanAdmin(ctx context.Context, actor *Actor, res Resource) (bool, error) {
	return e.Can(ctx, actor, RoleAdmin, res)
}

// CanDelete requires OWNER: deleting the project itself.
func (e *Engine) CanDelete(ctx context.Context, actor *Actor, res Resource) (bool, error) {
	return e.Can(ctx, actor, RoleOwner, res)
}

// VisibleProjects returns the project ids the actor may see. The second
// return is true when the actor sees everything (superuser), in which case
// the id slice is nil and listings apply no membership filter.
func (e *Engine) VisibleProjects(ctx context.Context, actor *Actor) ([]uint, bool, error) {
	if actor == nil {
		return []uint{}, false, nil
	}
	if actor.IsSuperuser {
		return nil, true, nil
	}
	ids, err := e.members.ProjectIDs(ctx, actor.ID)
	if err != nil {
		return nil, false, err
	}
	return ids, false, nil
}
