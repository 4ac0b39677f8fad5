package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	appErr "github.com/collabhub/hub/pkg/errors"
)

func TestCreateProjectGrantsOwnerMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)

	p, err := env.projectSvc.CreateProject(ctx, alice, &CreateProjectInput{Name: "apollo"})
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	var memberships []models.ProjectMembership
	require.NoError(t, env.db.Where("project_id = ?", p.ID).Find(&memberships).Error)
	require.Len(t, memberships, 1)
	require.Equal(t, alice.ID, memberships[0].UserID)
	require.Equal(t, authz.RoleOwner, memberships[0].Role)

	require.Equal(t, []string{"project.created"}, env.dispatched.verbs())
}

func TestCreateProjectRequiresActorAndName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)

	_, err := env.projectSvc.CreateProject(ctx, nil, &CreateProjectInput{Name: "x"})
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))

	_, err = env.projectSvc.CreateProject(ctx, alice, &CreateProjectInput{})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestGetProjectInvisibleReadsAsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	mallory := env.createUser(t, "mallory", models.ProfileHuman, false)
	p := env.createProject(t, alice, "apollo")

	_, err := env.projectSvc.GetProject(ctx, mallory, p.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))

	// Same code for a project that really does not exist.
	_, err = env.projectSvc.GetProject(ctx, mallory, 9999)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestListProjectsMatchesMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	bob := env.createUser(t, "bob", models.ProfileHuman, false)
	root := env.createUser(t, "root", models.ProfileHuman, true)

	pa := env.createProject(t, alice, "apollo")
	env.createProject(t, bob, "borealis")
	env.addMember(t, pa.ID, bob.ID, authz.RoleViewer)

	got, err := env.projectSvc.ListProjects(ctx, alice, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "apollo", got[0].Name)

	got, err = env.projectSvc.ListProjects(ctx, bob, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = env.projectSvc.ListProjects(ctx, root, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	_, err = env.projectSvc.ListProjects(ctx, nil, nil)
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
}

func TestListProjectsArchivedFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	p := env.createProject(t, alice, "apollo")

	archived := true
	_, err := env.projectSvc.UpdateProject(ctx, alice, p.ID, &UpdateProjectInput{IsArchived: &archived})
	require.NoError(t, err)

	got, err := env.projectSvc.ListProjects(ctx, alice, nil)
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = env.projectSvc.ListProjects(ctx, alice, &ProjectFilters{IncludeArchived: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestUpdateProjectThresholds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	vera := env.createUser(t, "vera", models.ProfileHuman, false)
	p := env.createProject(t, alice, "apollo")
	env.addMember(t, p.ID, vera.ID, authz.RoleViewer)

	name := "artemis"
	// A viewer can see the project, so the failure is forbidden, not
	// not_found.
	_, err := env.projectSvc.UpdateProject(ctx, vera, p.ID, &UpdateProjectInput{Name: &name})
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))

	got, err := env.projectSvc.UpdateProject(ctx, alice, p.ID, &UpdateProjectInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "artemis", got.Name)
}

func TestDeleteProjectRequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", models.ProfileHuman, false)
	adam := env.createUser(t, "adam", models.ProfileHuman, false)
	p := env.createProject(t, alice, "apollo")
	env.addMember(t, p.ID, adam.ID, authz.RoleAdmin)

	err := env.projectSvc.DeleteProject(ctx, adam, p.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))

	require.NoError(t, env.projectSvc.DeleteProject(ctx, alice, p.ID))

	_, err = env.projectSvc.GetProject(ctx, alice, p.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))

	require.Contains(t, env.dispatched.verbs(), "project.deleted")
}
