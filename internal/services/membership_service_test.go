package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

func TestAddMemberRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	mark := env.createUser(t, "mark", models.ProfileHuman, false)
	vera := env.createUser(t, "vera", models.ProfileHuman, false)
	p := env.createProject(t, alice, "apollo")
	env.addMember(t, p.ID, mark.ID, authz.RoleMember)

	_, err := env.membershipSvc.AddMember(ctx, mark, &AddMemberInput{
		ProjectID: p.ID, UserID: vera.ID, Role: authz.RoleViewer,
	})
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))

	m, err := env.membershipSvc.AddMember(ctx, alice, &AddMemberInput{
		ProjectID: p.ID, UserID: vera.ID, Role: authz.RoleViewer,
	})
	require.NoError(t, err)
	require.Equal(t, authz.RoleViewer, m.Role)
	require.Contains(t, env.dispatched.verbs(), "membership.created")
}

func TestAddMemberDuplicateAndUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	bob := env.createUser(t, "bob", models.ProfileHuman, false)
	p := env.createProject(t, alice, "apollo")

	_, err := env.membershipSvc.AddMember(ctx, alice, &AddMemberInput{ProjectID: p.ID, UserID: bob.ID})
	require.NoError(t, err)

	_, err = env.membershipSvc.AddMember(ctx, alice, &AddMemberInput{ProjectID: p.ID, UserID: bob.ID})
	require.True(t, appErr.IsCode(err, appErr.CodeAlreadyExists))

	_, err = env.membershipSvc.AddMember(ctx, alice, &AddMemberInput{ProjectID: p.ID, UserID: 9999})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	_, err = env.membershipSvc.AddMember(ctx, alice, &AddMemberInput{ProjectID: p.ID, UserID: bob.ID, Role: "king"})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestUpdateAndRemoveMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	bob := env.createUser(t, "bob", models.ProfileHuman, false)
	p := env.createProject(t, alice, "apollo")

	m, err := env.membershipSvc.AddMember(ctx, alice, &AddMemberInput{ProjectID: p.ID, UserID: bob.ID})
	require.NoError(t, err)

	got, err := env.membershipSvc.UpdateMember(ctx, alice, p.ID, m.ID, authz.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, authz.RoleAdmin, got.Role)

	require.NoError(t, env.membershipSvc.RemoveMember(ctx, alice, p.ID, m.ID))

	_, err = env.membershipSvc.UpdateMember(ctx, alice, p.ID, m.ID, authz.RoleMember)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))

	require.Subset(t, env.dispatched.verbs(), []string{"membership.updated", "membership.deleted"})
}

func TestMembershipFromOtherProjectReadsAsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	bob := env.createUser(t, "bob", models.ProfileHuman, false)
	pa := env.createProject(t, alice, "apollo")
	pb := env.createProject(t, bob, "borealis")
	env.addMember(t, pb.ID, alice.ID, authz.RoleAdmin)

	var bobOwner models.ProjectMembership
	require.NoError(t, env.db.Where("project_id = ? AND user_id = ?", pb.ID, bob.ID).First(&bobOwner).Error)

	// A membership id under the wrong project path must not resolve.
	_, err := env.membershipSvc.UpdateMember(ctx, alice, pa.ID, bobOwner.ID, authz.RoleViewer)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestListMembersVisibleToViewers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	vera := env.createUser(t, "vera", models.ProfileHuman, false)
	out := env.createUser(t, "out", models.ProfileHuman, false)
	p := env.createProject(t, alice, "apollo")
	env.addMember(t, p.ID, vera.ID, authz.RoleViewer)

	items, err := env.membershipSvc.ListMembers(ctx, vera, p.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	_, err = env.membershipSvc.ListMembers(ctx, out, p.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}
